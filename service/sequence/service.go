package sequence

import (
	"context"
	"iter"
	"log/slog"
)

// Service is a demo producer yielding count consecutive integers starting
// at start.
type Service struct {
	start  int
	count  int
	logger *slog.Logger
}

// New creates an integer range producer
func New(start, count int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{start: start, count: count, logger: logger}
}

// Items returns the range; iteration ends early once ctx is cancelled
func (s *Service) Items(ctx context.Context) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		for i := s.start; i < s.start+s.count; i++ {
			if ctx.Err() != nil {
				return
			}
			if !yield(i, nil) {
				return
			}
		}
	}
}

// Close logs the producer shutdown
func (s *Service) Close() error {
	s.logger.Info("sequence stopped", "start", s.start, "count", s.count)
	return nil
}
