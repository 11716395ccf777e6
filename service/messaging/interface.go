package messaging

import (
	"context"
	"time"
)

// Queue represents a FIFO work queue shared by one producer and many
// consumers. It tracks how many tasks were enqueued and completed so that
// callers can drain it.
type Queue[T any] interface {
	// Put enqueues a task, blocking up to timeout while a bounded queue is
	// full. It returns ErrFull on timeout; the caller must retry.
	Put(task T, timeout time.Duration) error

	// Get dequeues the oldest task, blocking up to timeout while the queue is
	// empty. It returns ErrEmpty on timeout; the caller must retry.
	Get(timeout time.Duration) (Message[T], error)

	// Drain blocks until every enqueued task has been completed.
	Drain(ctx context.Context) error

	// Close releases the queue; Put and Get fail with ErrClosed afterwards.
	Close() error

	// Stats returns a snapshot of the queue counters.
	Stats() Stats
}

// Message represents a task retrieved from a queue. Exactly one of Ack or
// Nack must be called once processing has been attempted.
type Message[T any] interface {
	// ID returns the message identifier assigned on Put
	ID() string

	// T returns the task carried by this message
	T() T

	// Ack marks the task completed successfully
	Ack() error

	// Nack marks the task completed with a failure. The task is not requeued.
	Nack(err error) error
}

// Stats holds queue counters. Completed includes Failed.
type Stats struct {
	Enqueued  int64 `json:"enqueued"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Pending   int   `json:"pending"`
}

// Outstanding returns the number of enqueued tasks not completed yet.
func (s Stats) Outstanding() int64 {
	return s.Enqueued - s.Completed
}
