package orchestrator

import (
	"log/slog"
	"time"
)

// Config represents orchestrator configuration
type Config struct {
	// Graceful drains already enqueued tasks when the run is interrupted.
	Graceful bool `json:"graceful" yaml:"graceful"`

	// StartupDelay is the pause between starting the producer and starting
	// the consumers.
	StartupDelay time.Duration `json:"startupDelay" yaml:"startupDelay"`
}

// DefaultConfig returns the default orchestrator configuration
func DefaultConfig() Config {
	return Config{
		StartupDelay: 100 * time.Millisecond,
	}
}

// Option customises an Orchestrator
type Option func(o *Orchestrator)

// WithConfig sets the orchestrator configuration
func WithConfig(config Config) Option {
	return func(o *Orchestrator) {
		o.config = config
	}
}

// WithGraceful toggles graceful interrupt handling
func WithGraceful(graceful bool) Option {
	return func(o *Orchestrator) {
		o.config.Graceful = graceful
	}
}

// WithStartupDelay sets the pause before consumers start
func WithStartupDelay(delay time.Duration) Option {
	return func(o *Orchestrator) {
		o.config.StartupDelay = delay
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}
