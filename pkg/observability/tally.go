package observability

import (
	"context"
	"sync"
	"time"
)

// Tally is a PipelineHooks and OutputHooks implementation that totals
// what a run did. The CLI registers one to print its closing summary.
type Tally struct {
	NoopPipelineHooks

	mu       sync.Mutex
	loaded   int
	failed   int
	files    int
	bytes    int64
	loadTime time.Duration
	drawTime time.Duration
}

// TallySnapshot is a point-in-time copy of a Tally.
type TallySnapshot struct {
	TablesLoaded int
	Failures     int
	FilesWritten int
	BytesWritten int64
	LoadTime     time.Duration
	RenderTime   time.Duration
}

func (t *Tally) OnLoadComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadTime += d
	if err != nil {
		t.failed++
		return
	}
	t.loaded++
}

func (t *Tally) OnRenderComplete(_ context.Context, _ string, _ []string, d time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drawTime += d
	if err != nil {
		t.failed++
	}
}

func (t *Tally) OnFileWritten(_ context.Context, _ string, size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.files++
	t.bytes += size
}

// Snapshot returns the current totals.
func (t *Tally) Snapshot() TallySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TallySnapshot{
		TablesLoaded: t.loaded,
		Failures:     t.failed,
		FilesWritten: t.files,
		BytesWritten: t.bytes,
		LoadTime:     t.loadTime,
		RenderTime:   t.drawTime,
	}
}
