package label

import "github.com/matzehuels/funnel/pkg/funnel/geom"

const (
	connectorIndent = 4
	// emptyPixelOffset keeps connector ends off the exact segment edge so the
	// anti-aliased line does not leave a blank pixel between the two.
	emptyPixelOffset = 1
)

// BoundsProvider exposes the rendered bounding box of a label.
type BoundsProvider interface {
	BoundingRect() geom.Box
}

// ConnectorStrategy decides where a connector touches the segment and the
// label. It only holds configuration, so a single value is shared by every
// label of a build pass.
type ConnectorStrategy struct {
	position           Position
	left               bool
	indent             float64
	verticalCorrection float64
}

// NewConnectorStrategy builds the strategy for one label build pass.
func NewConnectorStrategy(position Position, align Alignment, inverted bool) ConnectorStrategy {
	s := ConnectorStrategy{
		position: position,
		left:     align == AlignLeft,
		indent:   -connectorIndent,
	}
	if s.left {
		s.indent = connectorIndent
	}
	if inverted {
		s.verticalCorrection = -emptyPixelOffset
	}
	return s
}

// IsLabelInside reports whether labels sit inside their segments, in which
// case no connector is drawn.
func (s ConnectorStrategy) IsLabelInside() bool {
	return !s.position.IsOutside()
}

// FigureCenter returns the connector anchor on the segment: just inside its
// top-left corner for left alignment, just inside its top-right otherwise.
func (s ConnectorStrategy) FigureCenter(c geom.Coords) geom.Point {
	if s.left {
		return geom.Point{X: c[0] + emptyPixelOffset, Y: c[1] + s.verticalCorrection}
	}
	return geom.Point{X: c[2] - emptyPixelOffset, Y: c[3] + s.verticalCorrection}
}

// FindFigurePoint returns the point on the segment where the connector starts.
func (s ConnectorStrategy) FindFigurePoint(c geom.Coords) geom.Point {
	return s.FigureCenter(c)
}

// PrepareLabelPoints returns the quadrilateral the connector is drawn toward:
// the label box shifted by the connector indent and the inversion correction.
// Corners are top-left, top-right, bottom-right, bottom-left.
func (s ConnectorStrategy) PrepareLabelPoints(p BoundsProvider) [4]geom.Point {
	b := p.BoundingRect()
	x := b.X + s.indent
	y := b.Y + s.verticalCorrection
	x1 := x + b.Width
	y1 := y + b.Height
	return [4]geom.Point{{X: x, Y: y}, {X: x1, Y: y}, {X: x1, Y: y1}, {X: x, Y: y1}}
}
