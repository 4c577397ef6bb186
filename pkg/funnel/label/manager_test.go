package label

import (
	"testing"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
)

type fakeHost struct {
	opts     Options
	adaptive AdaptiveLayout
	inverted bool
	rtl      bool
	items    []Item
	requests []string
}

func (h *fakeHost) LabelOptions() Options          { return h.opts }
func (h *fakeHost) AdaptiveLayout() AdaptiveLayout { return h.adaptive }
func (h *fakeHost) Inverted() bool                 { return h.inverted }
func (h *fakeHost) RTLEnabled() bool               { return h.rtl }
func (h *fakeHost) Items() []Item                  { return h.items }
func (h *fakeHost) RequestChange(codes ...string)  { h.requests = append(h.requests, codes...) }

type fakeGroup struct{ clears int }

func (g *fakeGroup) Clear() { g.clears++ }

type fakeRenderer struct{ group *fakeGroup }

func (r fakeRenderer) Group(string) Group { return r.group }

// fakeLabel has a fixed natural size. Fit shrinks it to the requested text
// width plus its padding.
type fakeLabel struct {
	width, height float64
	natural       float64
	padding       float64
	x, y          float64
	hidden        bool
	opts          Resolved
	data          Data
	figure        geom.Coords
	drawn         bool
	fitCalls      []float64
}

func (l *fakeLabel) BoundingRect() geom.Box {
	return geom.Box{X: l.x, Y: l.y, Width: l.width, Height: l.height}
}
func (l *fakeLabel) SetOptions(o Resolved)                  { l.opts = o }
func (l *fakeLabel) SetData(d Data)                         { l.data = d }
func (l *fakeLabel) Draw()                                  { l.drawn = true }
func (l *fakeLabel) IsVisible() bool                        { return !l.hidden }
func (l *fakeLabel) ResetEllipsis()                         { l.width = l.natural }
func (l *fakeLabel) BackgroundPadding() float64             { return l.padding }
func (l *fakeLabel) Hide()                                  { l.hidden = true }
func (l *fakeLabel) ClearVisibility()                       { l.hidden = false }
func (l *fakeLabel) SetFigureToDrawConnector(c geom.Coords) { l.figure = c }
func (l *fakeLabel) Shift(x, y float64)                     { l.x, l.y = x, y }
func (l *fakeLabel) Fit(maxWidth float64) {
	l.fitCalls = append(l.fitCalls, maxWidth)
	l.width = maxWidth + l.padding
}

// newFixture returns a host with three stacked segments in a 400x300 area
// and a manager whose labels are width wide.
func newFixture(position Position, width float64) (*fakeHost, *Manager, *fakeGroup, *[]*fakeLabel) {
	opts := DefaultOptions()
	opts.Position = position

	host := &fakeHost{
		opts:     opts,
		adaptive: AdaptiveLayout{Width: 80, Height: 80, KeepLabels: true},
		items: []Item{
			{Coords: geom.Coords{0, 0, 200, 0, 180, 100, 20, 100}, Value: 30, Color: "#111111"},
			{Coords: geom.Coords{20, 100, 180, 100, 160, 200, 40, 200}, Value: 20, Color: "#222222"},
			{Coords: geom.Coords{40, 200, 160, 200, 140, 300, 60, 300}, Value: 10, Color: "#333333"},
		},
	}

	created := &[]*fakeLabel{}
	factory := func(Group, ConnectorStrategy) Label {
		l := &fakeLabel{width: width, natural: width, height: 20, padding: 16}
		*created = append(*created, l)
		return l
	}

	group := &fakeGroup{}
	m := NewManager(host, factory)
	m.Init(fakeRenderer{group: group})
	return host, m, group, created
}

func TestBuildCreatesOneLabelPerItem(t *testing.T) {
	for _, pos := range []Position{PositionInside, PositionOutside, PositionColumns} {
		t.Run(pos.String(), func(t *testing.T) {
			host, m, _, _ := newFixture(pos, 50)
			m.Build()

			labels := m.Labels()
			if len(labels) != len(host.items) {
				t.Fatalf("len(Labels()) = %d, want %d", len(labels), len(host.items))
			}
			for i, l := range labels {
				fl := l.(*fakeLabel)
				if fl.data.Index != i || fl.data.Value != host.items[i].Value {
					t.Errorf("label %d bound to %+v", i, fl.data)
				}
				if fl.opts.Background.Fill != host.items[i].Color {
					t.Errorf("label %d fill = %q, want segment color %q", i, fl.opts.Background.Fill, host.items[i].Color)
				}
				if !fl.drawn {
					t.Errorf("label %d not drawn", i)
				}
			}
		})
	}
}

func TestBuildRequestsLayoutForOutsidePositions(t *testing.T) {
	tests := []struct {
		pos  Position
		want int
	}{
		{PositionInside, 0},
		{PositionOutside, 1},
		{PositionColumns, 1},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			host, m, _, _ := newFixture(tt.pos, 50)
			m.Build()
			if len(host.requests) != tt.want {
				t.Errorf("requests = %v, want %d LAYOUT request(s)", host.requests, tt.want)
			}
		})
	}
}

func TestBuildInvisibleClearsLabels(t *testing.T) {
	host, m, group, _ := newFixture(PositionOutside, 50)
	m.Build()
	if len(m.Labels()) != 3 {
		t.Fatalf("len(Labels()) = %d, want 3", len(m.Labels()))
	}

	host.opts.Font.Size = 0
	m.Build()

	if len(m.Labels()) != 0 {
		t.Errorf("len(Labels()) = %d after disabling, want 0", len(m.Labels()))
	}
	if group.clears != 2 {
		t.Errorf("group cleared %d times, want 2", group.clears)
	}
}

func TestRebuildReplacesAllLabels(t *testing.T) {
	_, m, group, _ := newFixture(PositionColumns, 50)
	m.Build()
	first := append([]Label(nil), m.Labels()...)

	m.Change().Handler()

	if group.clears != 2 {
		t.Errorf("group cleared %d times, want 2", group.clears)
	}
	for i, l := range m.Labels() {
		for _, old := range first {
			if l == old {
				t.Errorf("label %d survived the rebuild", i)
			}
		}
	}
}

func TestChangeDeclaration(t *testing.T) {
	host, m, _, _ := newFixture(PositionInside, 50)
	c := m.Change()

	if c.Code != ChangeLabel || c.Option != "label" {
		t.Errorf("Change = %q/%q, want LABEL/label", c.Code, c.Option)
	}
	if !c.ThemeDependent || !c.OptionChange {
		t.Error("label change should be theme and option dependent")
	}

	c.Handler()
	if len(host.requests) != 1 || host.requests[0] != ChangeLayout {
		t.Errorf("requests = %v, want [LAYOUT]", host.requests)
	}
	if len(m.Labels()) != 3 {
		t.Errorf("len(Labels()) = %d, want 3", len(m.Labels()))
	}
}

func TestApplySizeInsideKeepsRect(t *testing.T) {
	_, m, _, _ := newFixture(PositionInside, 50)
	m.Build()

	rect := geom.Rect{X1: 400, Y1: 300}
	body := m.ApplySize(rect)

	if body != rect || m.LabelRect() != rect {
		t.Errorf("body/labelRect = %v/%v, want %v", body, m.LabelRect(), rect)
	}
}

func TestApplySizeReservesLabelColumn(t *testing.T) {
	tests := []struct {
		name  string
		pos   Position
		align Alignment
		want  geom.Rect
	}{
		{"outside right", PositionOutside, AlignRight, geom.Rect{X1: 400 - 55, Y1: 300}},
		{"outside left", PositionOutside, AlignLeft, geom.Rect{X0: 55, X1: 400, Y1: 300}},
		{"columns right", PositionColumns, AlignRight, geom.Rect{X1: 400 - 70, Y1: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, m, _, _ := newFixture(tt.pos, 50)
			host.opts.HorizontalAlignment = tt.align
			m.Build()

			rect := geom.Rect{X1: 400, Y1: 300}
			if got := m.ApplySize(rect); got != tt.want {
				t.Errorf("ApplySize() = %v, want %v", got, tt.want)
			}
			if m.LabelRect() != rect {
				t.Errorf("LabelRect() = %v, want %v", m.LabelRect(), rect)
			}
		})
	}
}

func TestApplySizeUsesWidestLabelAfterReset(t *testing.T) {
	_, m, _, created := newFixture(PositionOutside, 50)
	m.Build()
	(*created)[1].natural = 90
	(*created)[0].width = 10

	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})

	if want := 400.0 - (90 + 5); body.X1 != want {
		t.Errorf("body.X1 = %v, want %v", body.X1, want)
	}
	if (*created)[0].width != 50 {
		t.Errorf("label 0 width = %v, want reset to 50", (*created)[0].width)
	}
}

func TestApplySizeAdaptiveHide(t *testing.T) {
	host, m, _, created := newFixture(PositionOutside, 145)
	host.adaptive = AdaptiveLayout{Width: 300, KeepLabels: false}
	m.Build()

	rect := geom.Rect{X1: 400, Y1: 300}
	body := m.ApplySize(rect)

	if body != rect || m.LabelRect() != body {
		t.Errorf("body = %v, labelRect = %v, want both %v", body, m.LabelRect(), rect)
	}
	for i, l := range *created {
		if !l.hidden {
			t.Errorf("label %d not hidden", i)
		}
	}
}

func TestApplySizeAdaptiveKeepLabelsClamps(t *testing.T) {
	host, m, _, created := newFixture(PositionOutside, 145)
	host.adaptive = AdaptiveLayout{Width: 300, KeepLabels: true}
	m.Build()
	(*created)[2].hidden = true

	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})

	if body.X1 != 300 {
		t.Errorf("body.X1 = %v, want 300 (reserved 100)", body.X1)
	}
	for i, l := range *created {
		if l.hidden {
			t.Errorf("label %d still hidden", i)
		}
	}
}

func TestApplySizeAdaptiveNeverNegative(t *testing.T) {
	host, m, _, _ := newFixture(PositionOutside, 145)
	host.adaptive = AdaptiveLayout{Width: 500, KeepLabels: true}
	m.Build()

	rect := geom.Rect{X1: 400, Y1: 300}
	if body := m.ApplySize(rect); body != rect {
		t.Errorf("ApplySize() = %v, want %v", body, rect)
	}
}

func TestApplySizeRecoversAfterHide(t *testing.T) {
	host, m, _, created := newFixture(PositionOutside, 145)
	host.adaptive = AdaptiveLayout{Width: 300, KeepLabels: false}
	m.Build()
	m.ApplySize(geom.Rect{X1: 400, Y1: 300})

	body := m.ApplySize(geom.Rect{X1: 800, Y1: 300})
	if want := 800.0 - 150; body.X1 != want {
		t.Errorf("body.X1 = %v, want %v", body.X1, want)
	}
	for i, l := range *created {
		if l.hidden {
			t.Errorf("label %d still hidden after widening", i)
		}
	}
}

func TestPositionOutsideRight(t *testing.T) {
	host, m, _, created := newFixture(PositionOutside, 50)
	host.opts.VerticalOffset = 90
	m.Build()
	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})
	m.Position(body)

	for i, l := range *created {
		c := host.items[i].Coords
		if l.figure != c {
			t.Errorf("label %d figure = %v, want %v", i, l.figure, c)
		}
		if want := c.Right() + outsideIndent; l.x != want {
			t.Errorf("label %d x = %v, want %v", i, l.x, want)
		}
	}
	// The last label would hang below the area and is clamped.
	if first := (*created)[0]; first.y != 90 {
		t.Errorf("first label y = %v, want 90", first.y)
	}
	if last := (*created)[2]; last.y != 300-20 {
		t.Errorf("last label y = %v, want 280", last.y)
	}
}

func TestPositionFitsOverflowingLabel(t *testing.T) {
	host, m, _, created := newFixture(PositionOutside, 50)
	m.Build()
	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})

	// Move the first segment close to the label rectangle's right edge.
	host.items[0].Coords = geom.Coords{0, 0, 380, 0, 360, 100, 20, 100}
	m.Position(body)

	first := (*created)[0]
	if len(first.fitCalls) != 1 || first.fitCalls[0] != 20-16 {
		t.Errorf("fit calls = %v, want [4]", first.fitCalls)
	}
	if len((*created)[1].fitCalls) != 0 {
		t.Errorf("label 1 should not be fitted")
	}
	if first.x+first.width > 400 {
		t.Errorf("label 0 right edge %v exceeds label rect", first.x+first.width)
	}
}

func TestPositionInsideCentersAndClamps(t *testing.T) {
	_, m, _, created := newFixture(PositionInside, 50)
	m.Build()
	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})
	m.Position(body)

	l := (*created)[0]
	if l.x != 75 || l.y != 40 {
		t.Errorf("label 0 at (%v, %v), want (75, 40)", l.x, l.y)
	}
	for i, l := range *created {
		if len(l.fitCalls) != 0 {
			t.Errorf("inside label %d should not be fitted", i)
		}
	}
}

func TestPositionColumnsRTL(t *testing.T) {
	host, m, _, created := newFixture(PositionColumns, 50)
	host.rtl = true
	m.Build()
	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})
	m.Position(body)

	for i, l := range *created {
		if l.x != 350 {
			t.Errorf("label %d x = %v, want flush with the outer edge (350)", i, l.x)
		}
	}
}

func TestPositionInvertedOutside(t *testing.T) {
	host, m, _, created := newFixture(PositionOutside, 50)
	host.inverted = true
	m.Build()
	body := m.ApplySize(geom.Rect{X1: 400, Y1: 300})
	m.Position(body)

	// Segment 1's top-right y is 100; the inverted label sits above it.
	if got := (*created)[1].y; got != 80 {
		t.Errorf("label 1 y = %v, want 80", got)
	}
}

func TestHitTest(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{PositionInside, HitInsideLabel},
		{PositionOutside, HitOutsideLabel},
		{PositionColumns, HitOutsideLabel},
	}

	for _, tt := range tests {
		t.Run(tt.pos.String(), func(t *testing.T) {
			_, m, _, created := newFixture(tt.pos, 50)
			m.Build()
			for i, l := range *created {
				l.x, l.y = 10, float64(i)*10 // overlapping boxes
			}

			hit, ok := m.HitTest(20, 15)
			if !ok {
				t.Fatal("HitTest() ok = false")
			}
			if hit.ID != 0 || hit.Type != tt.want {
				t.Errorf("HitTest() = %+v, want id 0 type %s", hit, tt.want)
			}

			(*created)[0].hidden = true
			if hit, _ := m.HitTest(20, 15); hit.ID != 1 {
				t.Errorf("HitTest() with label 0 hidden = %+v, want id 1", hit)
			}

			if _, ok := m.HitTest(1000, 1000); ok {
				t.Error("HitTest() outside all labels ok = true")
			}
		})
	}
}
