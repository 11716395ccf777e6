package printer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Service is a demo consumer that logs every task as "<tag>-<task>" and
// then pauses to simulate work.
type Service[T any] struct {
	tag    string
	pause  time.Duration
	logger *slog.Logger
}

// Option customises a printer
type Option func(*options)

type options struct {
	pause  time.Duration
	logger *slog.Logger
}

// WithPause sets the pause after each printed task
func WithPause(pause time.Duration) Option {
	return func(o *options) {
		o.pause = pause
	}
}

// WithLogger sets the logger tasks are printed to
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a printer identified by tag
func New[T any](tag string, opts ...Option) *Service[T] {
	o := &options{pause: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Service[T]{tag: tag, pause: o.pause, logger: o.logger}
}

// Tag returns the printer tag
func (s *Service[T]) Tag() string {
	return s.tag
}

// Consume prints task
func (s *Service[T]) Consume(ctx context.Context, task T) error {
	s.logger.InfoContext(ctx, fmt.Sprintf("%s-%v", s.tag, task))
	if s.pause <= 0 {
		return nil
	}
	timer := time.NewTimer(s.pause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close logs the printer shutdown
func (s *Service[T]) Close() error {
	s.logger.Info(s.tag + " stopped")
	return nil
}
