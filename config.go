package qworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/qworker/runtime/orchestrator"
	"github.com/viant/qworker/service/meta"
	"github.com/viant/qworker/service/worker"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON; LoadConfig starts from DefaultConfig so a
// document only needs the settings it overrides.
type Config struct {
	// Graceful drains already enqueued tasks on interrupt instead of
	// abandoning them.
	Graceful bool `json:"graceful" yaml:"graceful"`

	// StartupDelay separates producer start from consumer start.
	StartupDelay time.Duration `json:"startupDelay" yaml:"startupDelay"`

	Queue QueueConfig `json:"queue" yaml:"queue"`

	// Consumers sizes the consumer pool when it is built from configuration;
	// zero selects DefaultConsumers. New sizes the pool from its arguments
	// and ignores it.
	Consumers int `json:"consumers" yaml:"consumers"`
}

// DefaultConsumers is the consumer pool size used when Consumers is zero
const DefaultConsumers = 4

// QueueConfig represents work queue settings
type QueueConfig struct {
	// Capacity bounds pending tasks; zero means unbounded.
	Capacity int `json:"capacity" yaml:"capacity"`

	// PollTimeout bounds each blocking queue call made by a worker.
	PollTimeout time.Duration `json:"pollTimeout" yaml:"pollTimeout"`
}

// DefaultConfig returns a Config populated with default values. Callers may
// modify the returned struct before passing it to NewFromConfig.
func DefaultConfig() *Config {
	return &Config{
		StartupDelay: orchestrator.DefaultConfig().StartupDelay,
		Queue: QueueConfig{
			PollTimeout: worker.DefaultConfig().PollTimeout,
		},
		Consumers: DefaultConsumers,
	}
}

// ConsumerCount returns the configured pool size, falling back to
// DefaultConsumers.
func (c *Config) ConsumerCount() int {
	if c.Consumers == 0 {
		return DefaultConsumers
	}
	return c.Consumers
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.StartupDelay < 0 {
		errs = append(errs, fmt.Errorf("startupDelay must be >= 0"))
	}
	if c.Queue.Capacity < 0 {
		errs = append(errs, fmt.Errorf("queue.capacity must be >= 0"))
	}
	if c.Queue.PollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("queue.pollTimeout must be > 0"))
	}
	if c.Consumers < 0 {
		errs = append(errs, fmt.Errorf("consumers must be >= 0"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML configuration from any afs location, expanding
// ${env.NAME} expressions, and validates the result.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}

func (c *Config) orchestratorConfig() orchestrator.Config {
	return orchestrator.Config{Graceful: c.Graceful, StartupDelay: c.StartupDelay}
}

func (c *Config) workerConfig() worker.Config {
	return worker.Config{PollTimeout: c.Queue.PollTimeout}
}
