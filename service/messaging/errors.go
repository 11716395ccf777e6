package messaging

import "errors"

var (
	// ErrFull is returned by Put when a bounded queue stays full for the
	// whole timeout. It is transient.
	ErrFull = errors.New("messaging: queue full")

	// ErrEmpty is returned by Get when no task arrives within the timeout.
	// It is transient.
	ErrEmpty = errors.New("messaging: queue empty")

	// ErrClosed is returned once the queue has been released.
	ErrClosed = errors.New("messaging: queue closed")

	// ErrAlreadyCompleted is returned when a message is acked or nacked twice.
	ErrAlreadyCompleted = errors.New("messaging: message already completed")
)
