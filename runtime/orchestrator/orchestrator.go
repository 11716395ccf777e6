package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/viant/qworker/internal/clock"
	"github.com/viant/qworker/service/messaging"
	"github.com/viant/qworker/service/worker"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("orchestrator: already started")

	// ErrInterrupted is returned when the run context is cancelled before
	// the queue has been drained.
	ErrInterrupted = errors.New("orchestrator: interrupted")
)

// Queue is the subset of messaging.Queue the orchestrator needs.
type Queue interface {
	Drain(ctx context.Context) error
	Close() error
	Stats() messaging.Stats
}

// Orchestrator coordinates one producer worker and many consumer workers
// sharing a queue.
type Orchestrator struct {
	config    Config
	logger    *slog.Logger
	queue     Queue
	producer  worker.Worker
	consumers []worker.Worker
	started   atomic.Bool
}

// New creates an orchestrator. It does not start any worker.
func New(queue Queue, producer worker.Worker, consumers []worker.Worker, opts ...Option) *Orchestrator {
	ret := &Orchestrator{
		config:    DefaultConfig(),
		queue:     queue,
		producer:  producer,
		consumers: consumers,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

// Start runs the producer/consumer pipeline to completion and returns once
// every worker has terminated and the queue has been released.
//
// Cancelling ctx interrupts the run: the producer is stopped, the queue is
// drained when Graceful is set, then consumers are stopped. The returned
// error wraps ErrInterrupted and the context cause.
func (o *Orchestrator) Start(ctx context.Context) error {
	if !o.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer func() {
		r := recover()
		o.release()
		if r != nil {
			panic(r)
		}
	}()

	started := clock.Now()
	o.logger.Info("run started", "consumers", len(o.consumers), "graceful", o.config.Graceful)
	o.producer.Start(ctx)
	if !sleep(ctx, o.config.StartupDelay) {
		return o.interrupt(ctx)
	}
	o.startConsumers(ctx)

	select {
	case <-o.producer.Done():
	case <-ctx.Done():
		return o.interrupt(ctx)
	}
	if err := o.queue.Drain(ctx); err != nil {
		if ctx.Err() != nil {
			return o.interrupt(ctx)
		}
		return fmt.Errorf("failed to drain queue: %w", err)
	}
	o.stopConsumers()

	stats := o.queue.Stats()
	o.logger.Info("run completed",
		"enqueued", stats.Enqueued,
		"completed", stats.Completed,
		"failed", stats.Failed,
		"elapsed", clock.Since(started))
	return nil
}

func (o *Orchestrator) interrupt(ctx context.Context) error {
	cause := context.Cause(ctx)
	o.logger.Warn("run interrupted", "graceful", o.config.Graceful, "cause", cause)

	o.producer.Stop()
	o.producer.Wait()

	if o.config.Graceful {
		// consumers may not be running yet if the interrupt came during startup
		o.startConsumers(ctx)
		o.logger.Info("draining queue", "outstanding", o.queue.Stats().Outstanding())
		if err := o.queue.Drain(context.WithoutCancel(ctx)); err != nil {
			o.logger.Warn("failed to drain queue", "error", err)
		}
	} else if outstanding := o.queue.Stats().Outstanding(); outstanding > 0 {
		o.logger.Warn("abandoning outstanding tasks", "outstanding", outstanding)
	}
	o.stopConsumers()
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

func (o *Orchestrator) startConsumers(ctx context.Context) {
	for _, consumer := range o.consumers {
		consumer.Start(ctx)
	}
}

// stopConsumers signals every consumer before joining them so that they
// wind down concurrently.
func (o *Orchestrator) stopConsumers() {
	for _, consumer := range o.consumers {
		consumer.Stop()
	}
	var group errgroup.Group
	for _, consumer := range o.consumers {
		group.Go(func() error {
			consumer.Wait()
			return nil
		})
	}
	_ = group.Wait()
}

// release stops and joins every worker and closes the queue. Each step is
// idempotent, so it is safe after a completed run.
func (o *Orchestrator) release() {
	o.producer.Stop()
	o.producer.Wait()
	o.stopConsumers()
	if err := o.queue.Close(); err != nil {
		o.logger.Warn("failed to release queue", "error", err)
	}
}

// sleep waits for d and reports false when ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
