package label

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
	"github.com/matzehuels/funnel/pkg/observability"
)

// Change codes understood by the host.
const (
	ChangeLayout = "LAYOUT"
	ChangeLabel  = "LABEL"
)

// Hit types reported by HitTest.
const (
	HitOutsideLabel = "outside-label"
	HitInsideLabel  = "inside-label"
)

// Item is a funnel segment as seen by the label engine. The host owns it.
type Item struct {
	Coords geom.Coords
	Value  float64
	Color  string
}

// Data binds a label to its segment.
type Data struct {
	Index int
	Item  Item
	Value float64
}

// Label is a single label entity. Implementations measure and draw
// themselves; the manager only decides size limits and placement.
type Label interface {
	BoundsProvider
	SetOptions(Resolved)
	SetData(Data)
	Draw()
	IsVisible() bool
	ResetEllipsis()
	Fit(maxWidth float64)
	BackgroundPadding() float64
	Hide()
	ClearVisibility()
	SetFigureToDrawConnector(geom.Coords)
	Shift(x, y float64)
}

// Group is the container that visually holds every label of a build pass.
type Group interface {
	Clear()
}

// Renderer creates label containers on the rendering surface.
type Renderer interface {
	Group(className string) Group
}

// Factory creates a label attached to group. All labels of one pass share
// strategy.
type Factory func(group Group, strategy ConnectorStrategy) Label

// AdaptiveLayout is the policy applied when the chart is too narrow for
// both the funnel body and the label column.
type AdaptiveLayout struct {
	// Width is the minimum body width to preserve.
	Width float64 `toml:"width"`
	// Height is the minimum body height to preserve.
	Height float64 `toml:"height"`
	// KeepLabels shrinks the label column instead of hiding labels.
	KeepLabels bool `toml:"keep_labels"`
}

// Host is what the manager requires from the chart widget.
type Host interface {
	LabelOptions() Options
	AdaptiveLayout() AdaptiveLayout
	Inverted() bool
	RTLEnabled() bool
	Items() []Item
	RequestChange(codes ...string)
}

// Hit identifies the label found by HitTest.
type Hit struct {
	ID   int
	Type string
}

// Change declares an option-driven change to the host's change registry.
type Change struct {
	Code           string
	Option         string
	ThemeDependent bool
	OptionChange   bool
	Handler        func()
}

// Manager owns the labels of a funnel chart. Labels are index-aligned with
// the host's items and are always rebuilt as a set.
type Manager struct {
	host      Host
	newLabel  Factory
	logger    *log.Logger
	group     Group
	labels    []Label
	labelRect geom.Rect
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used for pass tracing.
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a manager for host that creates labels with newLabel.
func NewManager(host Host, newLabel Factory, opts ...ManagerOption) *Manager {
	m := &Manager{
		host:     host,
		newLabel: newLabel,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init creates the labels group on r. It must run before Build.
func (m *Manager) Init(r Renderer) {
	m.group = r.Group("labels")
	m.labels = nil
}

// Labels returns the current label set, index-aligned with the host items.
func (m *Manager) Labels() []Label { return m.labels }

// LabelRect returns the area labels are clamped into. It is valid after
// ApplySize.
func (m *Manager) LabelRect() geom.Rect { return m.labelRect }

// Build discards the previous label set and creates one label per item.
func (m *Manager) Build() {
	opts := m.host.LabelOptions()
	strategy := NewConnectorStrategy(opts.Position, opts.HorizontalAlignment, m.host.Inverted())

	if m.group != nil {
		m.group.Clear()
	}
	m.labels = nil

	if !Resolve(opts, "").Visible {
		m.logger.Debug("Labels disabled, skipping build")
		observability.Labels().OnBuild(0, opts.Position.String())
		return
	}

	items := m.host.Items()
	m.labels = make([]Label, len(items))
	for i, item := range items {
		l := m.newLabel(m.group, strategy)
		l.SetOptions(Resolve(opts, item.Color))
		l.SetData(Data{Index: i, Item: item, Value: item.Value})
		l.Draw()
		m.labels[i] = l
	}
	m.logger.Debugf("Built %d labels (position %s)", len(m.labels), opts.Position)
	observability.Labels().OnBuild(len(m.labels), opts.Position.String())

	// Outside labels take space from the body, so their size feeds layout.
	if len(m.labels) > 0 && opts.Position.IsOutside() {
		m.host.RequestChange(ChangeLayout)
	}
}

// ApplySize reserves room for outside labels. It records the full area as
// the label rectangle and returns body with the label column cut off.
func (m *Manager) ApplySize(body geom.Rect) geom.Rect {
	opts := m.host.LabelOptions()
	m.labelRect = body

	if len(m.labels) == 0 || !opts.Position.IsOutside() {
		return body
	}

	var groupWidth float64
	for _, l := range m.labels {
		l.ResetEllipsis()
		groupWidth = max(groupWidth, l.BoundingRect().Width)
	}

	labelWidth := groupWidth + opts.HorizontalOffset + opts.Position.Indent()
	width := body.Width()
	adaptive := m.host.AdaptiveLayout()

	if width-labelWidth < adaptive.Width {
		if !adaptive.KeepLabels {
			for _, l := range m.labels {
				l.Hide()
			}
			m.logger.Debugf("Hid %d labels: need %.1f of %.1f, body minimum %.1f",
				len(m.labels), labelWidth, width, adaptive.Width)
			observability.Labels().OnAdaptiveHide(labelWidth, width, adaptive.Width)
			return body
		}
		labelWidth = max(width-adaptive.Width, 0)
	}

	for _, l := range m.labels {
		l.ClearVisibility()
	}

	if opts.HorizontalAlignment == AlignLeft {
		body.X0 += labelWidth
	} else {
		body.X1 -= labelWidth
	}
	m.logger.Debugf("Reserved %.1f for labels (%s)", labelWidth, opts.HorizontalAlignment)
	return body
}

// Position places every label next to its segment. body is the funnel area
// returned by ApplySize; the item coordinates must already be laid out in it.
func (m *Manager) Position(body geom.Rect) {
	opts := m.host.LabelOptions()
	inverted := m.host.Inverted()
	place := placerFor(opts, m.labelRect, body, m.host.RTLEnabled())
	items := m.host.Items()

	for i, l := range m.labels {
		if i >= len(items) {
			m.logger.Warnf("Label set out of date: %d labels, %d items", len(m.labels), len(items))
			break
		}
		c := items[i].Coords
		if opts.Position.IsOutside() {
			m.fitWidth(l, c, opts)
		}
		box := l.BoundingRect()
		pos := Clamp(place(c, box, opts, inverted), box, m.labelRect)
		l.SetFigureToDrawConnector(c)
		l.Shift(pos.X, pos.Y)
	}
	observability.Labels().OnPosition(len(m.labels), opts.Position.String())
}

// fitWidth shrinks l to the gap between the segment and the outer edge of
// the label rectangle.
func (m *Manager) fitWidth(l Label, c geom.Coords, opts Options) {
	minX, maxX := c.Right(), m.labelRect.X1
	if opts.HorizontalAlignment == AlignLeft {
		minX, maxX = m.labelRect.X0, c.Left()
	}
	maxWidth := maxX - minX
	if l.BoundingRect().Width > maxWidth {
		l.Fit(maxWidth - l.BackgroundPadding())
	}
}

// HitTest returns the first visible label whose box contains (x, y).
func (m *Manager) HitTest(x, y float64) (Hit, bool) {
	for i, l := range m.labels {
		if !l.IsVisible() || !l.BoundingRect().Contains(x, y) {
			continue
		}
		typ := HitInsideLabel
		if m.host.LabelOptions().Position.IsOutside() {
			typ = HitOutsideLabel
		}
		return Hit{ID: i, Type: typ}, true
	}
	return Hit{}, false
}

// Change returns the declaration of the "label" option change: a full
// rebuild followed by a layout pass, re-run on theme and option changes.
func (m *Manager) Change() Change {
	return Change{
		Code:           ChangeLabel,
		Option:         "label",
		ThemeDependent: true,
		OptionChange:   true,
		Handler: func() {
			m.Build()
			m.host.RequestChange(ChangeLayout)
		},
	}
}
