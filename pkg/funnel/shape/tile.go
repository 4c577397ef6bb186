// Package shape computes funnel segment trapezoids from values.
//
// The tiler is the host side of the layout: labels are placed against the
// coordinates it produces but it knows nothing about labels.
package shape

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/funnel/pkg/funnel/geom"
)

const eps = 1e-9

// Options controls segment tiling.
type Options struct {
	// Inverted flips the funnel vertically so the widest segment is at the
	// bottom. Point order within each segment is kept.
	Inverted bool
	// Gap is the vertical space between consecutive segments.
	Gap float64
	// MinWidth is the narrowest edge drawn, as a fraction of the area width.
	MinWidth float64
}

// Tile divides rect into one equal-height trapezoid per value. The top edge
// of segment i is proportional to values[i] and its bottom edge to
// values[i+1]; the last segment has parallel sides. Negative values count
// as zero.
func Tile(values []float64, rect geom.Rect, opts Options) []geom.Coords {
	n := len(values)
	if n == 0 {
		return nil
	}

	peak := floats.Max(values)

	gaps := opts.Gap * float64(n-1)
	height := max((rect.Height()-gaps)/float64(n), 0)
	centerX := (rect.X0 + rect.X1) / 2
	minRatio := min(max(opts.MinWidth, 0), 1)

	ratio := func(i int) float64 {
		if peak < eps {
			return minRatio
		}
		return max(values[i]/peak, minRatio)
	}

	out := make([]geom.Coords, n)
	for i := range values {
		top := ratio(i) * rect.Width() / 2
		bottom := top
		if i+1 < n {
			bottom = ratio(i+1) * rect.Width() / 2
		}
		y0 := rect.Y0 + float64(i)*(height+opts.Gap)
		y1 := y0 + height
		out[i] = geom.Coords{
			centerX - top, y0,
			centerX + top, y0,
			centerX + bottom, y1,
			centerX - bottom, y1,
		}
	}

	if opts.Inverted {
		for i := range out {
			out[i] = flip(out[i], rect)
		}
	}
	return out
}

// flip mirrors c about the horizontal center line of rect.
func flip(c geom.Coords, rect geom.Rect) geom.Coords {
	for i := 1; i < len(c); i += 2 {
		c[i] = rect.Y0 + rect.Y1 - c[i]
	}
	return c
}
