// Package pkg provides the libraries behind the funnel command.
//
// # Overview
//
// Funnel draws a chart as a stack of trapezoid segments, one per value,
// and places a label for every segment. Labels sit inside their segment,
// beside the funnel with a connector line, or in a column next to it. The
// pkg directory is organized as:
//
//  1. [funnel/label] - Label layout engine (positioning, option resolution, connectors)
//  2. [funnel/textlabel] - Concrete text labels measured with Go fonts
//  3. [funnel/widget] - Chart host: change queue, tiling, hit testing
//  4. [funnel/sink] - SVG and JSON output
//  5. [config] - TOML chart definitions
//  6. [cache] - Rendered output cache used by the HTTP server
//
// # Data Flow
//
//	chart.toml
//	    ↓
//	[config] package (decode + validate)
//	    ↓
//	[funnel/widget] package (tile segments, build and position labels)
//	    ↓
//	[funnel/sink] package (SVG / JSON)
//
// # Quick Start
//
//	cfg, err := config.Load("chart.toml")
//	if err != nil {
//	    return err
//	}
//	chart, err := widget.New(cfg)
//	if err != nil {
//	    return err
//	}
//	chart.Render()
//	svg := sink.RenderSVG(ctx, chart, sink.WithTitle(cfg.Title))
//
// # Error Handling
//
// Errors carry a [errors.Code] so callers can tell bad input from internal
// failures. The layout engine itself never fails: out-of-range geometry is
// clamped and labels that do not fit are hidden or ellipsized.
package pkg
