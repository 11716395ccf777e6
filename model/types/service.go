package types

import (
	"context"
	"iter"
)

// Producer generates a lazy, finite or infinite sequence of tasks.
//
// A non-nil error element reports a problem producing one item; the item is
// skipped and the sequence continues. Items must stop iterating when yield
// returns false.
type Producer[T any] interface {
	Items(ctx context.Context) iter.Seq2[T, error]

	// Close releases producer-held resources. It is invoked at most once per
	// worker lifetime.
	Close() error
}

// Consumer performs a side effect for one task at a time.
type Consumer[T any] interface {
	Consume(ctx context.Context, task T) error

	// Close releases consumer-held resources.
	Close() error
}

// ProducerFunc adapts a sequence factory to the Producer interface.
type ProducerFunc[T any] func(ctx context.Context) iter.Seq2[T, error]

// Items returns the sequence produced by f.
func (f ProducerFunc[T]) Items(ctx context.Context) iter.Seq2[T, error] {
	return f(ctx)
}

// Close is a no-op.
func (f ProducerFunc[T]) Close() error { return nil }

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc[T any] func(ctx context.Context, task T) error

// Consume calls f(ctx, task).
func (f ConsumerFunc[T]) Consume(ctx context.Context, task T) error {
	return f(ctx, task)
}

// Close is a no-op.
func (f ConsumerFunc[T]) Close() error { return nil }

// Slice returns a producer emitting the supplied items in order.
func Slice[T any](items ...T) Producer[T] {
	return ProducerFunc[T](func(ctx context.Context) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
		}
	})
}
