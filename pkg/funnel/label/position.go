package label

import (
	"strings"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
)

const (
	outsideIndent = 5
	columnsIndent = 20
)

// Position selects where labels are drawn relative to their segments.
type Position int

const (
	// PositionInside centers the label inside its segment.
	PositionInside Position = iota
	// PositionOutside places the label beside its segment, joined by a connector.
	PositionOutside
	// PositionColumns places the label in a fixed column beside the funnel body.
	PositionColumns
)

// ParsePosition normalizes a configured position name. Matching ignores case
// and surrounding whitespace; unknown values fall back to PositionInside.
func ParsePosition(s string) Position {
	switch normalizeEnum(s) {
	case "outside":
		return PositionOutside
	case "columns":
		return PositionColumns
	default:
		return PositionInside
	}
}

func (p Position) String() string {
	switch p {
	case PositionOutside:
		return "outside"
	case PositionColumns:
		return "columns"
	default:
		return "inside"
	}
}

// IsOutside reports whether labels are drawn outside the funnel body and
// therefore need reserved space and a connector.
func (p Position) IsOutside() bool {
	return p == PositionOutside || p == PositionColumns
}

// Indent is the gap kept between the funnel body and the label column.
func (p Position) Indent() float64 {
	switch p {
	case PositionOutside:
		return outsideIndent
	case PositionColumns:
		return columnsIndent
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (p *Position) UnmarshalText(b []byte) error {
	*p = ParsePosition(string(b))
	return nil
}

// Alignment is the side of the funnel that outside labels are placed on.
type Alignment int

const (
	AlignRight Alignment = iota
	AlignLeft
)

// ParseAlignment returns AlignLeft for "left" and AlignRight for anything else.
func ParseAlignment(s string) Alignment {
	if normalizeEnum(s) == "left" {
		return AlignLeft
	}
	return AlignRight
}

func (a Alignment) String() string {
	if a == AlignLeft {
		return "left"
	}
	return "right"
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (a *Alignment) UnmarshalText(b []byte) error {
	*a = ParseAlignment(string(b))
	return nil
}

// TextAlignment is the alignment of text inside a label column.
type TextAlignment int

const (
	TextLeft TextAlignment = iota
	TextRight
)

// TextAlignmentFor derives column text alignment from right-to-left mode.
func TextAlignmentFor(rtl bool) TextAlignment {
	if rtl {
		return TextRight
	}
	return TextLeft
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// placeFunc computes the top-left corner for a label box next to a segment.
type placeFunc func(c geom.Coords, box geom.Box, opts Options, inverted bool) geom.Point

func correctYForInverted(y float64, box geom.Box, inverted bool) float64 {
	if inverted {
		return y - box.Height
	}
	return y
}

func outsideRight(c geom.Coords, box geom.Box, opts Options, inverted bool) geom.Point {
	return geom.Point{
		X: c.Right() + opts.HorizontalOffset + outsideIndent,
		Y: correctYForInverted(c.RightY()+opts.VerticalOffset, box, inverted),
	}
}

func outsideLeft(c geom.Coords, box geom.Box, opts Options, inverted bool) geom.Point {
	return geom.Point{
		X: c.Left() - box.Width - opts.HorizontalOffset - outsideIndent,
		Y: correctYForInverted(c.Top()+opts.VerticalOffset, box, inverted),
	}
}

// inside never applies the inversion correction.
func inside(c geom.Coords, box geom.Box, opts Options, _ bool) geom.Point {
	width := c.Right() - c.Left()
	height := c.Bottom() - c.Top()
	return geom.Point{
		X: c.Left() + width/2 + opts.HorizontalOffset - box.Width/2,
		Y: c.Top() + opts.VerticalOffset + height/2 - box.Height/2,
	}
}

// columnRight places labels in the column right of body. Left-aligned text
// hugs the body edge; right-aligned text hugs the outer edge of labelRect.
func columnRight(labelRect, body geom.Rect, text TextAlignment) placeFunc {
	return func(c geom.Coords, box geom.Box, opts Options, inverted bool) geom.Point {
		x := labelRect.X1 - box.Width
		if text == TextLeft {
			x = body.X1 + opts.HorizontalOffset + columnsIndent
		}
		return geom.Point{
			X: x,
			Y: correctYForInverted(c.RightY()+opts.VerticalOffset, box, inverted),
		}
	}
}

func columnLeft(labelRect, body geom.Rect, text TextAlignment) placeFunc {
	return func(c geom.Coords, box geom.Box, opts Options, inverted bool) geom.Point {
		x := body.X0 - box.Width - opts.HorizontalOffset - columnsIndent
		if text == TextLeft {
			x = labelRect.X0
		}
		return geom.Point{
			X: x,
			Y: correctYForInverted(c.RightY()+opts.VerticalOffset, box, inverted),
		}
	}
}

// placerFor picks the anchor function for the configured position mode.
func placerFor(opts Options, labelRect, body geom.Rect, rtl bool) placeFunc {
	switch opts.Position {
	case PositionColumns:
		text := TextAlignmentFor(rtl)
		if opts.HorizontalAlignment == AlignLeft {
			return columnLeft(labelRect, body, text)
		}
		return columnRight(labelRect, body, text)
	case PositionOutside:
		if opts.HorizontalAlignment == AlignLeft {
			return outsideLeft
		}
		return outsideRight
	default:
		return inside
	}
}

// Clamp moves pos so that a box of the given size stays within rect.
// Left/top corrections run first, so when the box is larger than rect the
// right/bottom edge wins.
func Clamp(pos geom.Point, box geom.Box, rect geom.Rect) geom.Point {
	if pos.X < rect.X0 {
		pos.X = rect.X0
	}
	if pos.X+box.Width > rect.X1 {
		pos.X = rect.X1 - box.Width
	}
	if pos.Y < rect.Y0 {
		pos.Y = rect.Y0
	}
	if pos.Y+box.Height > rect.Y1 {
		pos.Y = rect.Y1 - box.Height
	}
	return pos
}
