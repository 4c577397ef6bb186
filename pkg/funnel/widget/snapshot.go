package widget

import (
	"github.com/matzehuels/funnel/pkg/funnel/geom"
	"github.com/matzehuels/funnel/pkg/funnel/label"
)

// Snapshot is the laid-out state of a chart.
type Snapshot struct {
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Body     geom.Rect        `json:"body"`
	Position string           `json:"position"`
	Segments []SegmentState   `json:"segments"`
	Labels   []LabelPlacement `json:"labels"`
}

// SegmentState is one tiled segment.
type SegmentState struct {
	Index  int         `json:"index"`
	Name   string      `json:"name,omitempty"`
	Value  float64     `json:"value"`
	Color  string      `json:"color"`
	Coords geom.Coords `json:"coords"`
}

// LabelPlacement is one positioned label.
type LabelPlacement struct {
	Index     int            `json:"index"`
	Text      string         `json:"text"`
	Visible   bool           `json:"visible"`
	Box       geom.Box       `json:"box"`
	Connector *[2]geom.Point `json:"connector,omitempty"`
}

// describer is implemented by label entities that expose their text and
// connector line.
type describer interface {
	Text() string
	ConnectorPoints() (from, to geom.Point, ok bool)
}

// Snapshot returns the current layout. Call it after Render.
func (c *Chart) Snapshot() Snapshot {
	s := Snapshot{
		Width:    c.cfg.Width,
		Height:   c.cfg.Height,
		Body:     c.body,
		Position: c.cfg.Label.Position.String(),
		Segments: make([]SegmentState, len(c.items)),
	}
	for i, it := range c.items {
		s.Segments[i] = SegmentState{Index: i, Value: it.Value, Color: it.Color, Coords: it.Coords}
		if i < len(c.cfg.Segments) {
			s.Segments[i].Name = c.cfg.Segments[i].Name
		}
	}
	for i, l := range c.labels.Labels() {
		s.Labels = append(s.Labels, placement(i, l))
	}
	return s
}

func placement(i int, l label.Label) LabelPlacement {
	p := LabelPlacement{Index: i, Visible: l.IsVisible(), Box: l.BoundingRect()}
	if d, ok := l.(describer); ok {
		p.Text = d.Text()
		if from, to, ok := d.ConnectorPoints(); ok && p.Visible {
			p.Connector = &[2]geom.Point{from, to}
		}
	}
	return p
}
