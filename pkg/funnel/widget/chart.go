// Package widget hosts the funnel label engine. A Chart owns the segments,
// the options and the body rectangle, and drives label build, size and
// position passes through a change queue.
//
// Changes are requested by code and processed by Render in a fixed order:
//
//	THEME  -> re-run every theme-dependent change
//	NODES  -> rebuild segment items
//	LABEL  -> rebuild labels
//	LAYOUT -> size the body, tile segments, position labels
//
// Handlers may request further changes while the queue is processed.
package widget

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/config"
	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/geom"
	"github.com/matzehuels/funnel/pkg/funnel/label"
	"github.com/matzehuels/funnel/pkg/funnel/scene"
	"github.com/matzehuels/funnel/pkg/funnel/shape"
	"github.com/matzehuels/funnel/pkg/funnel/textlabel"
)

// Change codes processed by Render, in processing order.
const (
	ChangeTheme  = "THEME"
	ChangeNodes  = "NODES"
	ChangeLabel  = label.ChangeLabel
	ChangeLayout = label.ChangeLayout
)

var changeOrder = []string{ChangeTheme, ChangeNodes, ChangeLabel, ChangeLayout}

// HitSegment is the hit type reported for funnel segments.
const HitSegment = "segment"

// HitTestFunc is one link of the hit-test chain.
type HitTestFunc func(x, y float64) (label.Hit, bool)

// Theme holds the theme-level values the chart consumes.
type Theme struct {
	Palette []string
}

// Chart is a funnel chart with labels. It implements label.Host and is not
// safe for concurrent use.
type Chart struct {
	logger  *log.Logger
	measure textlabel.Measurer

	cfg   config.Chart
	theme Theme
	items []label.Item

	root     *scene.Root
	segments *scene.Group
	labels   *label.Manager
	body     geom.Rect

	pending  map[string]bool
	handlers map[string][]func()
	options  map[string]string
	themed   []string
	hitTests []HitTestFunc
}

var _ label.Host = (*Chart)(nil)

// Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the logger for the chart and its label manager.
func WithLogger(l *log.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMeasurer sets the text measurer used by labels.
func WithMeasurer(m textlabel.Measurer) Option {
	return func(c *Chart) { c.measure = m }
}

// New creates a chart from cfg. Without WithMeasurer the embedded Go fonts
// are used. The first Render draws everything.
func New(cfg config.Chart, opts ...Option) (*Chart, error) {
	c := &Chart{
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		cfg:      cfg,
		theme:    Theme{Palette: config.Palette},
		pending:  make(map[string]bool),
		handlers: make(map[string][]func()),
		options:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.measure == nil {
		fonts, err := textlabel.NewGoFonts()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
		}
		c.measure = fonts
	}

	c.root = scene.NewRoot()
	c.segments = c.root.G("segments")

	c.labels = label.NewManager(c, textlabel.Factory(c.measure), label.WithLogger(c.logger))
	c.labels.Init(surface{c.root})

	c.AddChange(label.Change{Code: ChangeNodes, Option: "segments", ThemeDependent: true, Handler: c.buildNodes})
	c.AddChange(label.Change{Code: ChangeLayout, Option: "size", Handler: c.layout})
	c.AddChange(c.labels.Change())
	c.AddChange(label.Change{Code: ChangeLabel, Option: "inverted"})
	c.AddChange(label.Change{Code: ChangeLayout, Option: "rtl"})
	c.AddChange(label.Change{Code: ChangeLayout, Option: "adaptive_layout"})
	c.AddChange(label.Change{Code: ChangeLayout, Option: "shape"})

	c.AddHitTest(c.labels.HitTest)
	c.AddHitTest(c.hitSegment)

	c.RequestChange(ChangeNodes, ChangeLabel, ChangeLayout)
	return c, nil
}

// surface adapts the scene root to label.Renderer.
type surface struct{ root *scene.Root }

func (s surface) Group(className string) label.Group { return s.root.G(className) }

// AddChange registers c. Its handler runs whenever c.Code is processed,
// and SetOption(c.Option, ...) requests c.Code. A change without a handler
// only maps its option onto an existing code.
func (c *Chart) AddChange(ch label.Change) {
	if ch.Handler != nil {
		c.handlers[ch.Code] = append(c.handlers[ch.Code], ch.Handler)
	}
	if ch.Option != "" {
		c.options[ch.Option] = ch.Code
	}
	if ch.ThemeDependent {
		c.themed = append(c.themed, ch.Code)
	}
}

// AddHitTest appends fn to the hit-test chain. Earlier links win.
func (c *Chart) AddHitTest(fn HitTestFunc) {
	c.hitTests = append(c.hitTests, fn)
}

// RequestChange implements label.Host.
func (c *Chart) RequestChange(codes ...string) {
	for _, code := range codes {
		c.pending[code] = true
	}
}

// Pending reports whether code is queued.
func (c *Chart) Pending(code string) bool { return c.pending[code] }

// Render processes queued changes until none remain.
func (c *Chart) Render() {
	for {
		code, ok := c.next()
		if !ok {
			return
		}
		delete(c.pending, code)
		c.logger.Debug("Processing change", "code", code)
		if code == ChangeTheme {
			c.RequestChange(c.themed...)
			continue
		}
		for _, h := range c.handlers[code] {
			h()
		}
	}
}

func (c *Chart) next() (string, bool) {
	for _, code := range changeOrder {
		if c.pending[code] {
			return code, true
		}
	}
	for code := range c.pending {
		return code, true
	}
	return "", false
}

// SetOption replaces a chart option and queues the change it maps to.
// Recognized names are label, segments, inverted, rtl, adaptive_layout,
// shape and size.
func (c *Chart) SetOption(name string, value any) error {
	code, ok := c.options[name]
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown option %q", name).At(name)
	}
	if err := c.assign(name, value); err != nil {
		return err
	}
	c.RequestChange(code)
	return nil
}

func (c *Chart) assign(name string, value any) error {
	switch v := value.(type) {
	case label.Options:
		if name == "label" {
			c.cfg.Label = v
			return nil
		}
	case []config.Segment:
		if name == "segments" {
			c.cfg.Segments = v
			return nil
		}
	case label.AdaptiveLayout:
		if name == "adaptive_layout" {
			c.cfg.AdaptiveLayout = v
			return nil
		}
	case config.Shape:
		if name == "shape" {
			c.cfg.Shape = v
			return nil
		}
	case bool:
		switch name {
		case "inverted":
			c.cfg.Inverted = v
			return nil
		case "rtl":
			c.cfg.RTL = v
			return nil
		}
	case [2]float64:
		if name == "size" {
			c.cfg.Width, c.cfg.Height = v[0], v[1]
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "option %q cannot take %T", name, value).At(name)
}

// SetSize resizes the canvas.
func (c *Chart) SetSize(width, height float64) {
	c.cfg.Width, c.cfg.Height = width, height
	c.RequestChange(c.options["size"])
}

// SetTheme replaces the theme and queues every theme-dependent change.
func (c *Chart) SetTheme(t Theme) {
	if len(t.Palette) == 0 {
		t.Palette = config.Palette
	}
	c.theme = t
	c.RequestChange(ChangeTheme)
}

// LabelOptions implements label.Host.
func (c *Chart) LabelOptions() label.Options { return c.cfg.Label }

// AdaptiveLayout implements label.Host.
func (c *Chart) AdaptiveLayout() label.AdaptiveLayout { return c.cfg.AdaptiveLayout }

// Inverted implements label.Host.
func (c *Chart) Inverted() bool { return c.cfg.Inverted }

// RTLEnabled implements label.Host.
func (c *Chart) RTLEnabled() bool { return c.cfg.RTL }

// Items implements label.Host.
func (c *Chart) Items() []label.Item { return c.items }

// Config returns the chart definition currently drawn.
func (c *Chart) Config() config.Chart { return c.cfg }

// Body returns the funnel area after label space is reserved.
func (c *Chart) Body() geom.Rect { return c.body }

// Labels returns the label manager.
func (c *Chart) Labels() *label.Manager { return c.labels }

// Scene returns the scene root.
func (c *Chart) Scene() *scene.Root { return c.root }

// buildNodes rebuilds segment items from the configuration. Coordinates
// are filled in by layout.
func (c *Chart) buildNodes() {
	c.items = make([]label.Item, len(c.cfg.Segments))
	for i, s := range c.cfg.Segments {
		c.items[i] = label.Item{Value: s.Value, Color: c.cfg.SegmentColor(i, c.theme.Palette)}
	}
	c.logger.Debugf("Built %d segments", len(c.items))
	// Labels are index-aligned with items and must follow.
	c.RequestChange(ChangeLabel, ChangeLayout)
}

// canvas is the drawing area inside the margins.
func (c *Chart) canvas() geom.Rect {
	m := c.cfg.Margin
	return geom.Rect{X0: m, Y0: m, X1: c.cfg.Width - m, Y1: c.cfg.Height - m}
}

// layout sizes the body, tiles the segments into it and positions labels.
func (c *Chart) layout() {
	c.body = c.labels.ApplySize(c.canvas())

	coords := shape.Tile(c.cfg.Values(), c.body, shape.Options{
		Inverted: c.cfg.Inverted,
		Gap:      c.cfg.Shape.Gap,
		MinWidth: c.cfg.Shape.MinWidth,
	})
	c.segments.Clear()
	for i := range c.items {
		c.items[i].Coords = coords[i]
		pts := coords[i].Points()
		c.segments.Append(scene.Polygon{
			ID:     fmt.Sprintf("segment-%d", i),
			Points: pts[:],
			Fill:   c.items[i].Color,
		})
	}

	c.labels.Position(c.body)
	c.logger.Debugf("Laid out %d segments in %.0fx%.0f", len(c.items), c.body.Width(), c.body.Height())
}

// HitTest runs the hit-test chain and returns the first hit.
func (c *Chart) HitTest(x, y float64) (label.Hit, bool) {
	for _, fn := range c.hitTests {
		if h, ok := fn(x, y); ok {
			return h, true
		}
	}
	return label.Hit{}, false
}

func (c *Chart) hitSegment(x, y float64) (label.Hit, bool) {
	for i, it := range c.items {
		if it.Coords.Contains(x, y) {
			return label.Hit{ID: i, Type: HitSegment}, true
		}
	}
	return label.Hit{}, false
}
