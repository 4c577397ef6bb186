// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about label layout passes and chart rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLabelHooks(&myLabelHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Labels().OnBuild(len(labels), "columns")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Label Hooks
// =============================================================================

// LabelHooks receives events from the label layout passes. Layout runs
// synchronously on the caller's pass, so these carry no context.
type LabelHooks interface {
	// OnBuild records a label rebuild and the number of labels created.
	OnBuild(count int, position string)

	// OnAdaptiveHide records that all labels were hidden because the body
	// would have become narrower than minBody.
	OnAdaptiveHide(required, available, minBody float64)

	// OnPosition records a completed positioning pass.
	OnPosition(count int, position string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from chart rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, segments int)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLabelHooks is a no-op implementation of LabelHooks.
type NoopLabelHooks struct{}

func (NoopLabelHooks) OnBuild(int, string)                       {}
func (NoopLabelHooks) OnAdaptiveHide(float64, float64, float64) {}
func (NoopLabelHooks) OnPosition(int, string)                    {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	labelHooks  LabelHooks  = NoopLabelHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetLabelHooks registers custom label hooks.
// This should be called once at application startup before any layout pass.
func SetLabelHooks(h LabelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		labelHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Labels returns the registered label hooks.
func Labels() LabelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return labelHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults. Intended for tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	labelHooks = NoopLabelHooks{}
	renderHooks = NoopRenderHooks{}
}
