// Package textlabel implements funnel label entities: measured text on an
// optional background, with an optional connector to the segment.
package textlabel

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
	"github.com/matzehuels/funnel/pkg/funnel/label"
	"github.com/matzehuels/funnel/pkg/funnel/scene"
)

const (
	paddingX = 8
	paddingY = 10
	ellipsis = "..."
)

var dashArrays = map[string]string{
	"dash":     "4,3",
	"dot":      "1,3",
	"longdash": "8,3",
}

// Label is a text label bound to one funnel segment.
type Label struct {
	measure  Measurer
	strategy label.ConnectorStrategy
	opts     label.Resolved
	data     label.Data

	fullText string
	text     string
	metrics  Metrics

	x, y   float64
	drawn  bool
	hidden bool
	figure geom.Coords
	hasFig bool
}

var (
	_ label.Label = (*Label)(nil)
	_ scene.Node  = (*Label)(nil)
)

// Factory returns a label.Factory producing labels measured by m and
// appended to the scene group they are created in.
func Factory(m Measurer) label.Factory {
	return func(g label.Group, s label.ConnectorStrategy) label.Label {
		l := New(m, s)
		if sg, ok := g.(*scene.Group); ok {
			sg.Append(l)
		}
		return l
	}
}

// New returns a detached label.
func New(m Measurer, s label.ConnectorStrategy) *Label {
	return &Label{measure: m, strategy: s}
}

func (l *Label) SetOptions(o label.Resolved) { l.opts = o }

func (l *Label) SetData(d label.Data) { l.data = d }

// Draw formats the value and measures the text. Labels of zero values are
// skipped unless ShowForZeroValues is set.
func (l *Label) Draw() {
	l.fullText = l.format()
	l.drawn = l.opts.Visible &&
		(l.data.Value != 0 || l.opts.ShowForZeroValues) &&
		l.fullText != ""
	l.ResetEllipsis()
}

func (l *Label) format() string {
	valueText := formatValue(l.opts.Format, l.opts.Locale, l.data.Value)
	if l.opts.CustomizeText != nil {
		return l.opts.CustomizeText(label.TextInfo{
			Index:     l.data.Index,
			Value:     l.data.Value,
			ValueText: valueText,
			Color:     l.data.Item.Color,
		})
	}
	return valueText
}

// formatValue prints v with format. A locale adds its digit grouping and
// decimal separator; unknown locales are ignored.
func formatValue(format, locale string, v float64) string {
	if format == "" {
		if locale == "" {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		format = "%v"
	}
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			return message.NewPrinter(tag).Sprintf(format, v)
		}
	}
	return fmt.Sprintf(format, v)
}

// Text returns the text currently drawn, possibly truncated.
func (l *Label) Text() string { return l.text }

// BoundingRect returns the label box including background padding. A label
// that is not drawn has an empty box.
func (l *Label) BoundingRect() geom.Box {
	if !l.drawn {
		return geom.Box{X: l.x, Y: l.y}
	}
	px, py := l.padding()
	return geom.Box{
		X:      l.x,
		Y:      l.y,
		Width:  l.metrics.Width + 2*px,
		Height: l.metrics.Height + 2*py,
	}
}

func (l *Label) IsVisible() bool { return l.drawn && !l.hidden }

func (l *Label) ResetEllipsis() {
	l.setText(l.fullText)
}

// Fit truncates the text with an ellipsis until it is at most maxWidth wide.
// When not even the ellipsis fits, the text is dropped.
func (l *Label) Fit(maxWidth float64) {
	if !l.drawn || l.metrics.Width <= maxWidth {
		return
	}
	runes := []rune(l.fullText)
	for n := len(runes) - 1; n >= 0; n-- {
		candidate := string(runes[:n]) + ellipsis
		if l.measure.Measure(candidate, l.opts.Font).Width <= maxWidth {
			l.setText(candidate)
			return
		}
	}
	l.setText("")
}

func (l *Label) setText(s string) {
	l.text = s
	l.metrics = l.measure.Measure(s, l.opts.Font)
}

// BackgroundPadding returns the horizontal space taken by the background.
func (l *Label) BackgroundPadding() float64 {
	px, _ := l.padding()
	return 2 * px
}

func (l *Label) hasBackground() bool {
	bg := l.opts.Background
	return (bg.Fill != "" && bg.Fill != label.None) || (bg.Stroke != label.None && bg.StrokeWidth > 0)
}

func (l *Label) padding() (float64, float64) {
	if l.hasBackground() {
		return paddingX, paddingY
	}
	return 0, 0
}

func (l *Label) Hide() { l.hidden = true }

func (l *Label) ClearVisibility() { l.hidden = false }

func (l *Label) SetFigureToDrawConnector(c geom.Coords) {
	l.figure = c
	l.hasFig = true
}

func (l *Label) Shift(x, y float64) {
	l.x, l.y = x, y
}

// ConnectorPoints returns the connector line from the segment to the label.
// ok is false for inside labels, disabled connectors, and labels that
// overlap their anchor point.
func (l *Label) ConnectorPoints() (from, to geom.Point, ok bool) {
	if l.strategy.IsLabelInside() || !l.hasFig || l.opts.Connector.Stroke == label.None {
		return geom.Point{}, geom.Point{}, false
	}
	from = l.strategy.FindFigurePoint(l.figure)
	quad := l.strategy.PrepareLabelPoints(l)
	to = geom.Point{
		X: min(max(from.X, quad[0].X), quad[1].X),
		Y: min(max(from.Y, quad[0].Y), quad[2].Y),
	}
	if to == from {
		return geom.Point{}, geom.Point{}, false
	}
	return from, to, true
}

// RenderSVG implements scene.Node.
func (l *Label) RenderSVG(buf *bytes.Buffer) {
	if !l.IsVisible() {
		return
	}
	if from, to, ok := l.ConnectorPoints(); ok {
		c := l.opts.Connector
		fmt.Fprintf(buf, `    <path class="label-connector" d="M%.2f %.2f L%.2f %.2f" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f" fill="none"/>`+"\n",
			from.X, from.Y, to.X, to.Y, scene.EscapeXML(c.Stroke), c.StrokeWidth, opacity(c.Opacity))
	}

	box := l.BoundingRect()
	if l.hasBackground() {
		bg := l.opts.Background
		fmt.Fprintf(buf, `    <rect class="label-background" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"`,
			box.X, box.Y, box.Width, box.Height, scene.EscapeXML(bg.Fill), scene.EscapeXML(bg.Stroke), bg.StrokeWidth)
		if dash, ok := dashArrays[normalize(bg.DashStyle)]; ok {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, dash)
		}
		buf.WriteString("/>\n")
	}

	px, py := l.padding()
	f := l.opts.Font
	fmt.Fprintf(buf, `    <text class="label-text" x="%.2f" y="%.2f" font-family="%s" font-size="%.1f" font-weight="%d" fill="%s" fill-opacity="%.2f">%s</text>`+"\n",
		box.X+px, box.Y+py+l.metrics.Ascent, scene.EscapeXML(f.Family), f.Size, f.Weight, scene.EscapeXML(f.Color), opacity(f.Opacity), scene.EscapeXML(l.text))
}

// opacity treats zero as unset.
func opacity(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
