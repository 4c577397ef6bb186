package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
)

func TestGroupClear(t *testing.T) {
	root := NewRoot()
	g := root.G("labels")
	g.Append(Polygon{ID: "a"})
	g.Append(Polygon{ID: "b"})

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}

	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", g.Len())
	}
	if len(root.Groups()) != 1 {
		t.Errorf("Clear should not detach the group from root")
	}
}

func TestGroupRenderSVG(t *testing.T) {
	g := &Group{ClassName: "segments"}
	g.Append(Polygon{
		ID:     "segment-0",
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 8, Y: 5}},
		Fill:   "#1f77b4",
	})

	var buf bytes.Buffer
	g.RenderSVG(&buf)
	out := buf.String()

	for _, want := range []string{
		`<g class="segments">`,
		`points="0.00,0.00 10.00,0.00 8.00,5.00"`,
		`fill="#1f77b4"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#1f77b4", "#1f77b4"},
		{`a"b`, "a&#34;b"},
		{"<g>&", "&lt;g&gt;&amp;"},
		{"it's", "it&#39;s"},
	}

	for _, tt := range tests {
		if got := EscapeXML(tt.in); got != tt.want {
			t.Errorf("EscapeXML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPolygonRenderSVGEscapes(t *testing.T) {
	var buf bytes.Buffer
	Polygon{ID: `s"0`, Fill: `red" onload="x`}.RenderSVG(&buf)

	out := buf.String()
	if strings.Contains(out, `onload="x"`) {
		t.Errorf("fill broke out of its attribute:\n%s", out)
	}
	for _, want := range []string{`id="s&#34;0"`, `fill="red&#34; onload=&#34;x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
