// Package progress provides a lightweight tracker that keeps aggregated
// task counters (enqueued, completed, failed, …) for a single run. The
// tracker instance lives in the run context; every worker that receives the
// context can update the counters via the Delta helper without requiring a
// global registry.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/qworker/internal/clock"
)

// Delta represents an incremental counter change emitted by a worker. The
// fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Running   int
	Pending   int
}

// Enqueued is the delta recorded when a producer puts one task.
func Enqueued() Delta { return Delta{Total: 1, Pending: 1} }

// Dequeued is the delta recorded when a consumer picks one task.
func Dequeued() Delta { return Delta{Pending: -1, Running: 1} }

// Finished is the delta recorded once a consumer invocation returns.
// Completed counts every finished task, Failed only the unsuccessful ones.
func Finished(failed bool) Delta {
	d := Delta{Running: -1, Completed: 1}
	if failed {
		d.Failed = 1
	}
	return d
}

// Progress keeps aggregated task counters for one run. It is safe for
// concurrent use.
type Progress struct {
	// Identification: informative only, filled when the run starts.
	RunID     string
	Name      string
	StartedAt time.Time

	// Counters: modified via Update().
	TotalTasks     int
	CompletedTasks int
	FailedTasks    int
	RunningTasks   int
	PendingTasks   int

	mu       sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta to the tracker. It is safe to call from
// multiple goroutines. The onChange callback, if any, receives a copy of the
// updated counters outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.TotalTasks += d.Total
	p.CompletedTasks += d.Completed
	p.FailedTasks += d.Failed
	p.RunningTasks += d.Running
	p.PendingTasks += d.Pending
	snapshot := p.copy()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copy()
}

// Elapsed returns the time since the run started.
func (p *Progress) Elapsed() time.Duration {
	if p == nil || p.StartedAt.IsZero() {
		return 0
	}
	return clock.Since(p.StartedAt)
}

// OnChange registers a callback that is invoked after every Update. Passing
// nil disables the callback. Only one callback can be active.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

// copy returns the counters without the lock and callback. Caller holds mu.
func (p *Progress) copy() Progress {
	return Progress{
		RunID:          p.RunID,
		Name:           p.Name,
		StartedAt:      p.StartedAt,
		TotalTasks:     p.TotalTasks,
		CompletedTasks: p.CompletedTasks,
		FailedTasks:    p.FailedTasks,
		RunningTasks:   p.RunningTasks,
		PendingTasks:   p.PendingTasks,
	}
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// New creates a tracker for the named run.
func New(runID, name string, onChange func(Progress)) *Progress {
	return &Progress{
		RunID:     runID,
		Name:      name,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
}

// WithTracker embeds tr in a derived context.
func WithTracker(ctx context.Context, tr *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tr)
}

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both.
func WithNewTracker(ctx context.Context, runID, name string, onChange func(Progress)) (context.Context, *Progress) {
	tr := New(runID, name, onChange)
	return WithTracker(ctx, tr), tr
}

// FromContext extracts the Progress tracker from ctx. The second return
// value is false when the context carries no tracker.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot is a convenience wrapper that combines FromContext and
// Snapshot.
func GetSnapshot(ctx context.Context) (Progress, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Progress{}, false
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
