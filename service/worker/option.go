package worker

import (
	"log/slog"
	"time"
)

// Config represents worker configuration
type Config struct {
	// PollTimeout bounds every blocking queue call so that the worker
	// re-checks its stop flag at least this often.
	PollTimeout time.Duration
}

// DefaultConfig returns the default worker configuration
func DefaultConfig() Config {
	return Config{
		PollTimeout: 10 * time.Millisecond,
	}
}

type options struct {
	id     string
	config Config
	logger *slog.Logger
}

// Option customises a worker.
type Option func(*options)

// WithID sets the worker identifier used in logs and spans
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithPollTimeout sets the queue poll timeout
func WithPollTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.config.PollTimeout = timeout
		}
	}
}

// WithConfig sets the worker configuration
func WithConfig(config Config) Option {
	return func(o *options) {
		o.config = config
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ID returns the worker identifier
func (o *options) ID() string {
	return o.id
}

func newOptions(defaultID string, opts []Option) *options {
	ret := &options{id: defaultID, config: DefaultConfig()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.config.PollTimeout <= 0 {
		ret.config.PollTimeout = DefaultConfig().PollTimeout
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	ret.logger = ret.logger.With("worker", ret.id)
	return ret
}
