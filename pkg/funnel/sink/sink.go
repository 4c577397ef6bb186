// Package sink writes laid-out funnel charts to output formats.
//
// The chart must have been rendered (widget.Chart.Render) before it is
// passed to a sink. Supported formats are SVG and JSON:
//
//	c.Render()
//	svg := sink.RenderSVG(ctx, c, sink.WithTitle("Signups"))
//	data, err := sink.RenderJSON(ctx, c)
package sink

import (
	"context"
	"time"

	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/widget"
	"github.com/matzehuels/funnel/pkg/observability"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatJSON}

// Render writes c in format.
func Render(ctx context.Context, c *widget.Chart, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(ctx, c, WithTitle(c.Config().Title)), nil
	case FormatJSON:
		return RenderJSON(ctx, c)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
}

func track(ctx context.Context, format string, c *widget.Chart) func(size int, err error) {
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, format, len(c.Items()))
	start := time.Now()
	return func(size int, err error) {
		hooks.OnRenderComplete(ctx, format, size, time.Since(start), err)
	}
}
