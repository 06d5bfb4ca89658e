// Package observability lets callers watch the figure pipeline without the
// pipeline depending on any metrics or tracing backend.
//
// Hooks are registered once at startup, usually by main:
//
//	observability.SetPipelineHooks(&myHooks{})
//
// and the pipeline emits events through the registry:
//
//	observability.Pipeline().OnLoadStart(ctx, "paths_dp")
//	// ... read the table ...
//	observability.Pipeline().OnLoadComplete(ctx, "paths_dp", rows, cols, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from a batch run.
type PipelineHooks interface {
	// Table loading
	OnLoadStart(ctx context.Context, dataset string)
	OnLoadComplete(ctx context.Context, dataset string, rows, cols int, duration time.Duration, err error)

	// Normalization of one dataset in one mode
	OnNormalizeComplete(ctx context.Context, dataset, mode string, nonzero int, err error)

	// Rendering of one figure in all requested formats
	OnRenderStart(ctx context.Context, figure string, formats []string)
	OnRenderComplete(ctx context.Context, figure string, formats []string, duration time.Duration, err error)
}

// OutputHooks receives an event for every file written.
type OutputHooks interface {
	OnFileWritten(ctx context.Context, path string, size int64)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                      {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnNormalizeComplete(context.Context, string, string, int, error)          {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {}

// NoopOutputHooks ignores every output event.
type NoopOutputHooks struct{}

func (NoopOutputHooks) OnFileWritten(context.Context, string, int64) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	outputHooks   OutputHooks   = NoopOutputHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetOutputHooks registers output hooks. A nil h is ignored.
func SetOutputHooks(h OutputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		outputHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Output returns the registered output hooks.
func Output() OutputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return outputHooks
}

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	outputHooks = NoopOutputHooks{}
}
