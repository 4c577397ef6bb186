// Package scene is a minimal retained scene: a root holding named groups of
// nodes that can write themselves as SVG. Groups are cleared and refilled as
// a whole when the chart rebuilds.
package scene

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
)

// Node is anything a group can hold.
type Node interface {
	RenderSVG(buf *bytes.Buffer)
}

// Group is an ordered container of nodes.
type Group struct {
	ClassName string
	children  []Node
}

// Append adds n after the existing children.
func (g *Group) Append(n Node) { g.children = append(g.children, n) }

// Clear drops every child.
func (g *Group) Clear() { g.children = nil }

// Children returns the current children in drawing order.
func (g *Group) Children() []Node { return g.children }

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// RenderSVG writes the group as a <g> element.
func (g *Group) RenderSVG(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <g class=\"%s\">\n", EscapeXML(g.ClassName))
	for _, n := range g.children {
		n.RenderSVG(buf)
	}
	buf.WriteString("  </g>\n")
}

// Root is the top of the scene. Groups draw in creation order.
type Root struct {
	groups []*Group
}

// NewRoot returns an empty scene.
func NewRoot() *Root { return &Root{} }

// G creates a group and attaches it to the root.
func (r *Root) G(className string) *Group {
	g := &Group{ClassName: className}
	r.groups = append(r.groups, g)
	return g
}

// Groups returns the attached groups.
func (r *Root) Groups() []*Group { return r.groups }

// Polygon is a filled closed shape, used for funnel segments.
type Polygon struct {
	ID     string
	Points []geom.Point
	Fill   string
}

// RenderSVG implements Node.
func (p Polygon) RenderSVG(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `    <polygon id="%s" points="`, EscapeXML(p.ID))
	for i, pt := range p.Points {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%.2f,%.2f", pt.X, pt.Y)
	}
	fmt.Fprintf(buf, `" fill="%s"/>`+"\n", EscapeXML(p.Fill))
}

// EscapeXML escapes s for use in SVG text content and quoted attribute
// values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
