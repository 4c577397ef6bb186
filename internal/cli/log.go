// Package cli implements the funnel command-line interface.
//
// The CLI loads chart definitions, runs the label layout and writes or
// prints the result. It is built with cobra and logs with
// charmbracelet/log.
//
// # Commands
//
//   - render: Write a chart as SVG and/or JSON
//   - layout: Print the label placements as a table
//   - hittest: Report what lies under a point
//   - serve: Serve render and hit-test endpoints over HTTP
//   - version: Print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every label build and layout pass. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level. Timestamps are
// formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation when it completes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered chart.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks traces layout and render events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnBuild(count int, position string) {
	h.logger.Debug("Labels built", "count", count, "position", position)
}

func (h logHooks) OnAdaptiveHide(required, available, minBody float64) {
	h.logger.Debug("Labels hidden", "required", required, "available", available, "min_body", minBody)
}

func (h logHooks) OnPosition(count int, position string) {
	h.logger.Debug("Labels positioned", "count", count, "position", position)
}

func (h logHooks) OnRenderStart(_ context.Context, format string, segments int) {
	h.logger.Debug("Render started", "format", format, "segments", segments)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("Render complete", "format", format, "bytes", size, "duration", d.Round(time.Microsecond))
}
