package worker

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// State represents a worker lifecycle state
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
	StateClosed   State = "closed"
)

// Worker represents an isolated execution context with its own stop flag
type Worker interface {
	ID() string
	Start(ctx context.Context)
	Stop()
	Wait()
	Done() <-chan struct{}
	State() State
}

// lifecycle implements the idle → running → stopping → closed state machine
// shared by producer and consumer workers.
type lifecycle struct {
	mu     sync.Mutex
	state  State
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newLifecycle() *lifecycle {
	return &lifecycle{state: StateIdle, done: make(chan struct{})}
}

// State returns the current lifecycle state
func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// begin moves an idle worker to running and returns its run context. The
// run context keeps the parent's values but is cancelled only by Stop.
func (l *lifecycle) begin(parent context.Context) (context.Context, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateIdle {
		return nil, false
	}
	if parent == nil {
		parent = context.Background()
	}
	l.ctx, l.cancel = context.WithCancel(context.WithoutCancel(parent))
	l.state = StateRunning
	return l.ctx, true
}

// stop requests the worker to terminate. It is idempotent and never blocks.
// An idle worker is closed without running; closer then releases its
// collaborator exactly once, since begin can no longer succeed.
func (l *lifecycle) stop(closer func()) {
	l.mu.Lock()
	switch l.state {
	case StateIdle:
		l.state = StateClosed
		l.mu.Unlock()
		closer()
		close(l.done)
		return
	case StateRunning:
		l.state = StateStopping
		l.cancel()
	}
	l.mu.Unlock()
}

// stopRequested reports whether Stop has been called on a started worker.
func (l *lifecycle) stopRequested() bool {
	return l.ctx.Err() != nil
}

// end marks the worker closed once its goroutine exits.
func (l *lifecycle) end() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateClosed
	l.cancel()
	close(l.done)
}

// Done returns a channel closed once the worker has terminated.
func (l *lifecycle) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the worker terminates. It returns immediately for a
// worker that was never started.
func (l *lifecycle) Wait() {
	if l.State() == StateIdle {
		return
	}
	<-l.done
}

// release invokes closer, logging rather than propagating its failure.
func release(logger *slog.Logger, kind string, closer func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while releasing "+kind, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if err := closer(); err != nil {
		logger.Warn("failed to release "+kind, "error", err)
		return
	}
	logger.Debug(kind + " released")
}
