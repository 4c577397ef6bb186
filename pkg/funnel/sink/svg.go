package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/funnel/pkg/funnel/scene"
	"github.com/matzehuels/funnel/pkg/funnel/widget"
)

const interactionCSS = `
    .segments polygon { transition: opacity 0.2s ease; }
    .segments polygon:hover { opacity: 0.8; }
    .label-connector { pointer-events: none; }`

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      string
	background string
	styles     bool
}

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithoutStyles omits the embedded hover styles.
func WithoutStyles() SVGOption { return func(r *svgRenderer) { r.styles = false } }

// RenderSVG writes the chart scene as a standalone SVG document.
func RenderSVG(ctx context.Context, c *widget.Chart, opts ...SVGOption) []byte {
	done := track(ctx, FormatSVG, c)

	r := svgRenderer{styles: true}
	for _, opt := range opts {
		opt(&r)
	}

	cfg := c.Config()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)

	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", scene.EscapeXML(r.title))
	}
	if r.styles {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", scene.EscapeXML(r.background))
	}

	for _, g := range c.Scene().Groups() {
		g.RenderSVG(&buf)
	}
	buf.WriteString("</svg>\n")

	done(buf.Len(), nil)
	return buf.Bytes()
}
