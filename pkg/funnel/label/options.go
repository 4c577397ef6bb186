package label

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// None disables a fill or stroke.
const None = "none"

// Font describes label text styling.
type Font struct {
	Family  string  `toml:"family" json:"family,omitempty"`
	Color   string  `toml:"color" json:"color,omitempty"`
	Size    float64 `toml:"size" json:"size"`
	Weight  int     `toml:"weight" json:"weight,omitempty"`
	Opacity float64 `toml:"opacity" json:"opacity,omitempty"`
}

// Border configures the frame drawn around a label background.
type Border struct {
	Visible   bool    `toml:"visible"`
	Width     float64 `toml:"width"`
	Color     string  `toml:"color"`
	DashStyle string  `toml:"dash_style"`
}

// Connector configures the line joining an outside label to its segment.
type Connector struct {
	Visible bool    `toml:"visible"`
	Width   float64 `toml:"width"`
	Color   string  `toml:"color"`
	Opacity float64 `toml:"opacity"`
}

// TextInfo is passed to CustomizeText.
type TextInfo struct {
	Index     int
	Value     float64
	ValueText string
	Color     string
}

// Options is the raw label configuration of a chart. Every recognized
// option is listed here; Resolve turns it into per-segment styling.
type Options struct {
	Visible             bool      `toml:"visible"`
	Position            Position  `toml:"position"`
	HorizontalAlignment Alignment `toml:"horizontal_alignment"`
	HorizontalOffset    float64   `toml:"horizontal_offset"`
	VerticalOffset      float64   `toml:"vertical_offset"`
	ShowForZeroValues   bool      `toml:"show_for_zero_values"`
	Format              string    `toml:"format"`
	Locale              string    `toml:"locale"`
	BackgroundColor     string    `toml:"background_color"`
	Font                Font      `toml:"font"`
	Border              Border    `toml:"border"`
	Connector           Connector `toml:"connector"`

	CustomizeText func(TextInfo) string `toml:"-"`
}

// DefaultOptions returns the theme defaults for funnel labels.
func DefaultOptions() Options {
	return Options{
		Visible:             true,
		Position:            PositionColumns,
		HorizontalAlignment: AlignRight,
		Format:              "%g",
		Font: Font{
			Family:  "Go",
			Color:   "#ffffff",
			Size:    14,
			Weight:  400,
			Opacity: 1,
		},
		Border: Border{
			Width:     1,
			Color:     "#d3d3d3",
			DashStyle: "solid",
		},
		Connector: Connector{
			Visible: true,
			Width:   1,
			Opacity: 0.5,
		},
	}
}

// Background is the resolved style of the box behind label text.
type Background struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	DashStyle   string  `json:"dash_style,omitempty"`
}

// ConnectorStyle is the resolved style of a connector line.
type ConnectorStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Opacity     float64 `json:"opacity"`
}

// Resolved is the fully populated styling for one label. It is built fresh
// on every rebuild and not modified afterwards.
type Resolved struct {
	Format              string
	Locale              string
	CustomizeText       func(TextInfo) string
	Font                Font
	Visible             bool
	ShowForZeroValues   bool
	HorizontalOffset    float64
	VerticalOffset      float64
	Background          Background
	Connector           ConnectorStyle
	Position            Position
	HorizontalAlignment Alignment
}

// Resolve merges opts with fallback, normally the color of the segment the
// label belongs to.
func Resolve(opts Options, fallback string) Resolved {
	font := opts.Font
	border := opts.Border
	conn := opts.Connector

	bg := Background{
		Fill:      opts.BackgroundColor,
		Stroke:    None,
		DashStyle: border.DashStyle,
	}
	if bg.Fill == "" {
		bg.Fill = fallback
	}
	if border.Visible {
		bg.StrokeWidth = border.Width
		if border.Width != 0 {
			bg.Stroke = border.Color
		}
	}

	cs := ConnectorStyle{Stroke: None, Opacity: conn.Opacity}
	if conn.Visible {
		cs.StrokeWidth = conn.Width
		if conn.Width != 0 {
			cs.Stroke = conn.Color
			if cs.Stroke == "" {
				cs.Stroke = fallback
			}
		}
	}

	// White text on a transparent background is invisible once the label
	// leaves the colored segment.
	if normalizeEnum(opts.BackgroundColor) == None && isWhite(font.Color) && opts.Position != PositionInside {
		font.Color = fallback
	}

	return Resolved{
		Format:              opts.Format,
		Locale:              opts.Locale,
		CustomizeText:       opts.CustomizeText,
		Font:                font,
		Visible:             opts.Visible && font.Size != 0,
		ShowForZeroValues:   opts.ShowForZeroValues,
		HorizontalOffset:    opts.HorizontalOffset,
		VerticalOffset:      opts.VerticalOffset,
		Background:          bg,
		Connector:           cs,
		Position:            opts.Position,
		HorizontalAlignment: opts.HorizontalAlignment,
	}
}

func isWhite(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "white" {
		return true
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return false
	}
	return c.Hex() == "#ffffff"
}
