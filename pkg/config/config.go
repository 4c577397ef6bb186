// Package config loads funnel chart definitions from TOML files.
//
// A chart file describes the canvas, the label options and the segments:
//
//	width = 800
//	height = 480
//
//	[label]
//	position = "outside"
//	horizontal_alignment = "left"
//
//	[adaptive_layout]
//	width = 200
//	keep_labels = true
//
//	[[segments]]
//	name = "Visits"
//	value = 1200
//
// Keys that are absent keep the values of Default.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/label"
)

// Palette colors segments that do not set their own color.
var Palette = []string{
	"#1db2f5", "#f5564a", "#97c95c", "#ffc720", "#eb3573",
	"#a63db8", "#ffaa66", "#2dcdc4", "#c7e3b6", "#00c4d9",
}

// Segment is one funnel stage.
type Segment struct {
	Name  string  `toml:"name"`
	Value float64 `toml:"value"`
	Color string  `toml:"color"`
}

// Shape controls segment tiling.
type Shape struct {
	Gap      float64 `toml:"gap"`
	MinWidth float64 `toml:"min_width"`
}

// Chart is a complete chart definition.
type Chart struct {
	Title          string               `toml:"title"`
	Width          float64              `toml:"width"`
	Height         float64              `toml:"height"`
	Margin         float64              `toml:"margin"`
	Inverted       bool                 `toml:"inverted"`
	RTL            bool                 `toml:"rtl"`
	Label          label.Options        `toml:"label"`
	AdaptiveLayout label.AdaptiveLayout `toml:"adaptive_layout"`
	Shape          Shape                `toml:"shape"`
	Segments       []Segment            `toml:"segments"`
}

// Default returns a chart with theme defaults and no segments.
func Default() Chart {
	return Chart{
		Width:  800,
		Height: 480,
		Margin: 10,
		Label:  label.DefaultOptions(),
		AdaptiveLayout: label.AdaptiveLayout{
			Width:      80,
			Height:     80,
			KeepLabels: true,
		},
		Shape: Shape{Gap: 2, MinWidth: 0.05},
	}
}

// Load reads and validates the chart file at path.
func Load(path string) (Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Chart{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "chart file %s", path)
		}
		return Chart{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes a chart definition over Default and validates it.
func Parse(data []byte) (Chart, error) {
	c := Default()
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Chart{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode chart")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Chart{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Chart{}, err
	}
	return c, nil
}

// Validate checks the chart for values the renderer cannot draw.
func (c Chart) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "chart size must be positive, got %gx%g", c.Width, c.Height).At("width")
	}
	if c.Margin < 0 || 2*c.Margin >= min(c.Width, c.Height) {
		return errors.New(errors.ErrCodeInvalidGeometry, "margin %g leaves no drawing area", c.Margin).At("margin")
	}
	if c.AdaptiveLayout.Width < 0 || c.AdaptiveLayout.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "sizes cannot be negative").At("adaptive_layout")
	}
	if c.Shape.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cannot be negative").At("shape.gap")
	}
	if c.Shape.MinWidth < 0 || c.Shape.MinWidth > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "must be within [0, 1]").At("shape.min_width")
	}
	if err := ValidateFormat(c.Label.Format); err != nil {
		return err
	}
	if c.Label.Locale != "" {
		if _, err := language.Parse(c.Label.Locale); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "unknown locale %q", c.Label.Locale).At("label.locale")
		}
	}
	if len(c.Segments) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart has no segments").At("segments")
	}
	for i, s := range c.Segments {
		if s.Value < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "segment %q has negative value %g", s.Name, s.Value).At(fmt.Sprintf("segments[%d].value", i))
		}
	}
	return nil
}

// ValidateFormat checks that format is empty or holds exactly one numeric
// verb.
func ValidateFormat(format string) error {
	if format == "" {
		return nil
	}
	verbs := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i < len(format) && format[i] == '%' {
			continue
		}
		for i < len(format) && strings.IndexByte("+-# 0123456789.", format[i]) >= 0 {
			i++
		}
		if i >= len(format) || strings.IndexByte("beEfFgGv", format[i]) < 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "%q needs a numeric verb", format).At("label.format")
		}
		verbs++
	}
	if verbs != 1 {
		return errors.New(errors.ErrCodeInvalidFormat, "%q must contain one verb, found %d", format, verbs).At("label.format")
	}
	return nil
}

// SegmentColor returns the color of segment i. Segments without their own
// color cycle through palette, or Palette when palette is empty.
func (c Chart) SegmentColor(i int, palette []string) string {
	if col := c.Segments[i].Color; col != "" {
		return col
	}
	if len(palette) == 0 {
		palette = Palette
	}
	return palette[i%len(palette)]
}

// Values returns the segment values in order.
func (c Chart) Values() []float64 {
	out := make([]float64, len(c.Segments))
	for i, s := range c.Segments {
		out[i] = s.Value
	}
	return out
}
