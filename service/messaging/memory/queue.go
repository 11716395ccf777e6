package memory

import (
	"context"
	"sync"
	"time"

	"github.com/viant/qworker/internal/clock"
	"github.com/viant/qworker/internal/idgen"
	"github.com/viant/qworker/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	// Capacity bounds the number of pending messages; zero means unbounded.
	Capacity int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{Capacity: 0}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
	createdAt time.Time
}

// ID returns the message identifier
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() T {
	return m.payload
}

// CreatedAt returns the time the message was enqueued
func (m *Message[T]) CreatedAt() time.Time {
	return m.createdAt
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.complete(false)
}

// Nack records a failed attempt. The message is counted as completed and is
// never redelivered.
func (m *Message[T]) Nack(err error) error {
	return m.complete(true)
}

func (m *Message[T]) complete(failed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed {
		return messaging.ErrAlreadyCompleted
	}
	m.processed = true
	m.queue.complete(failed)
	return nil
}

type node[T any] struct {
	msg  *Message[T]
	next *node[T]
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	config Config

	mu         sync.Mutex
	start, end *node[T]
	size       int
	enqueued   int64
	completed  int64
	failed     int64
	closed     bool
	// changed is closed and replaced on every state change; waiters select
	// on it together with their own timer.
	changed chan struct{}
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Capacity < 0 {
		config.Capacity = 0
	}
	return &Queue[T]{
		config:  config,
		changed: make(chan struct{}),
	}
}

// Put adds a new item to the queue
func (q *Queue[T]) Put(task T, timeout time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var timer *time.Timer
	for {
		if q.closed {
			return messaging.ErrClosed
		}
		if !q.full() {
			break
		}
		if timeout <= 0 {
			return messaging.ErrFull
		}
		if timer == nil {
			timer = time.NewTimer(timeout)
			defer timer.Stop()
		}
		if !q.wait(timer.C) {
			if q.closed {
				return messaging.ErrClosed
			}
			if q.full() {
				return messaging.ErrFull
			}
			break
		}
	}

	q.push(&Message[T]{
		id:        idgen.New(),
		payload:   task,
		queue:     q,
		createdAt: clock.Now(),
	})
	q.enqueued++
	q.broadcast()
	return nil
}

// Get retrieves the oldest item from the queue
func (q *Queue[T]) Get(timeout time.Duration) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var timer *time.Timer
	for q.size == 0 {
		if q.closed {
			return nil, messaging.ErrClosed
		}
		if timeout <= 0 {
			return nil, messaging.ErrEmpty
		}
		if timer == nil {
			timer = time.NewTimer(timeout)
			defer timer.Stop()
		}
		if !q.wait(timer.C) && q.size == 0 {
			if q.closed {
				return nil, messaging.ErrClosed
			}
			return nil, messaging.ErrEmpty
		}
	}
	if q.closed {
		return nil, messaging.ErrClosed
	}
	msg := q.pop()
	q.broadcast()
	return msg, nil
}

// Drain blocks until every enqueued message has been acked or nacked
func (q *Queue[T]) Drain(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.completed < q.enqueued {
		if q.closed {
			return messaging.ErrClosed
		}
		changed := q.changed
		q.mu.Unlock()
		select {
		case <-changed:
		case <-ctx.Done():
			q.mu.Lock()
			return ctx.Err()
		}
		q.mu.Lock()
	}
	return nil
}

// Close releases the queue and wakes every blocked caller. Messages still
// pending are abandoned.
func (q *Queue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	q.broadcast()
	return nil
}

// Stats returns a snapshot of the queue counters
func (q *Queue[T]) Stats() messaging.Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return messaging.Stats{
		Enqueued:  q.enqueued,
		Completed: q.completed,
		Failed:    q.failed,
		Pending:   q.size,
	}
}

// Size returns the current number of pending messages in the queue
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

func (q *Queue[T]) complete(failed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.completed++
	if failed {
		q.failed++
	}
	if q.completed == q.enqueued {
		q.broadcast()
	}
}

func (q *Queue[T]) full() bool {
	return q.config.Capacity > 0 && q.size >= q.config.Capacity
}

// wait releases the lock until the queue state changes or expired fires.
// It reports false on expiry. Caller must hold q.mu.
func (q *Queue[T]) wait(expired <-chan time.Time) bool {
	changed := q.changed
	q.mu.Unlock()
	defer q.mu.Lock()
	select {
	case <-changed:
		return true
	case <-expired:
		return false
	}
}

// broadcast wakes every waiter. Caller must hold q.mu.
func (q *Queue[T]) broadcast() {
	close(q.changed)
	q.changed = make(chan struct{})
}

func (q *Queue[T]) push(msg *Message[T]) {
	n := &node[T]{msg: msg}
	if q.size == 0 {
		q.start = n
		q.end = n
	} else {
		q.end.next = n
		q.end = n
	}
	q.size++
}

func (q *Queue[T]) pop() *Message[T] {
	n := q.start
	q.start = n.next
	if q.start == nil {
		q.end = nil
	}
	q.size--
	return n.msg
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
