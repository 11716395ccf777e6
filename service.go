package qworker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/viant/qworker/internal/idgen"
	"github.com/viant/qworker/metrics"
	"github.com/viant/qworker/model/types"
	"github.com/viant/qworker/progress"
	"github.com/viant/qworker/runtime/orchestrator"
	"github.com/viant/qworker/service/messaging"
	"github.com/viant/qworker/service/messaging/memory"
	"github.com/viant/qworker/service/worker"
	"github.com/viant/qworker/tracing"
)

var (
	// ErrNoProducer is returned by New when producer is nil.
	ErrNoProducer = errors.New("qworker: producer is required")

	// ErrNoConsumers is returned by New when no consumer is supplied.
	ErrNoConsumers = errors.New("qworker: at least one consumer is required")
)

// Service runs one producer against a pool of consumers
type Service[T any] struct {
	name         string
	runID        string
	config       *Config
	logger       *slog.Logger
	queue        *memory.Queue[T]
	orchestrator *orchestrator.Orchestrator
	tracker      *progress.Progress
}

// New creates a service for the supplied producer and consumers. Each
// consumer gets its own worker.
func New[T any](producer types.Producer[T], consumers []types.Consumer[T], opts ...Option) (*Service[T], error) {
	if producer == nil {
		return nil, ErrNoProducer
	}
	if len(consumers) == 0 {
		return nil, ErrNoConsumers
	}
	for i, consumer := range consumers {
		if consumer == nil {
			return nil, fmt.Errorf("%w: consumer %d is nil", ErrNoConsumers, i)
		}
	}
	o := newOptions(opts)
	if o.tracingErr != nil {
		return nil, fmt.Errorf("failed to initialise tracing: %w", o.tracingErr)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	s := &Service[T]{
		name:   o.name,
		runID:  idgen.New(),
		config: o.config,
		queue:  memory.NewQueue[T](memory.Config{Capacity: o.config.Queue.Capacity}),
	}
	s.logger = o.logger.With("run", s.runID)
	s.tracker = progress.New(s.runID, s.name, o.onProgress)
	if o.registerer != nil {
		if err := metrics.New("qworker", s.tracker.Snapshot).Register(o.registerer); err != nil {
			return nil, err
		}
	}

	workerConfig := worker.WithConfig(o.config.workerConfig())
	producerWorker := worker.NewProducer[T](s.queue, producer,
		workerConfig, worker.WithID("producer"), worker.WithLogger(s.logger))
	var consumerWorkers []worker.Worker
	for i, consumer := range consumers {
		consumerWorkers = append(consumerWorkers, worker.NewConsumer[T](s.queue, consumer,
			workerConfig, worker.WithID("consumer-"+strconv.Itoa(i)), worker.WithLogger(s.logger)))
	}
	s.orchestrator = orchestrator.New(s.queue, producerWorker, consumerWorkers,
		orchestrator.WithConfig(o.config.orchestratorConfig()),
		orchestrator.WithLogger(s.logger))
	return s, nil
}

// NewFromConfig creates a service using config; further options are applied
// on top of it.
func NewFromConfig[T any](config *Config, producer types.Producer[T], consumers []types.Consumer[T], opts ...Option) (*Service[T], error) {
	if config == nil {
		config = DefaultConfig()
	}
	return New[T](producer, consumers, append([]Option{WithConfig(config)}, opts...)...)
}

// Start runs the pipeline until the producer is exhausted and every task
// has been completed, or until ctx is cancelled. A service runs once.
func (s *Service[T]) Start(ctx context.Context) (err error) {
	ctx = progress.WithTracker(ctx, s.tracker)
	ctx, span := tracing.StartSpan(ctx, s.name+".run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"run.id": s.runID})
	defer func() { tracing.EndSpan(span, err) }()
	return s.orchestrator.Start(ctx)
}

// RunID returns the identifier assigned to this run
func (s *Service[T]) RunID() string {
	return s.runID
}

// Config returns the effective configuration
func (s *Service[T]) Config() *Config {
	return s.config
}

// Stats returns the work queue counters
func (s *Service[T]) Stats() messaging.Stats {
	return s.queue.Stats()
}

// Progress returns a snapshot of the run progress
func (s *Service[T]) Progress() progress.Progress {
	return s.tracker.Snapshot()
}
