package worker

import (
	"context"
	"errors"
	"runtime/debug"

	"github.com/viant/qworker/internal/idgen"
	"github.com/viant/qworker/model/types"
	"github.com/viant/qworker/progress"
	"github.com/viant/qworker/service/messaging"
	"github.com/viant/qworker/tracing"
)

// Producer drives a types.Producer, placing every item it yields onto the
// queue. The wrapped producer is released on every exit path.
type Producer[T any] struct {
	*lifecycle
	*options
	queue    messaging.Queue[T]
	producer types.Producer[T]
	produced int
}

// NewProducer creates an idle producer worker
func NewProducer[T any](queue messaging.Queue[T], producer types.Producer[T], opts ...Option) *Producer[T] {
	o := newOptions("producer-"+idgen.Short(), opts)
	return &Producer[T]{
		lifecycle: newLifecycle(),
		options:   o,
		queue:     queue,
		producer:  producer,
	}
}

// Start launches the worker goroutine. Subsequent calls are no-ops.
func (p *Producer[T]) Start(ctx context.Context) {
	runCtx, ok := p.begin(ctx)
	if !ok {
		return
	}
	p.logger.Debug("producer started")
	go p.run(runCtx)
}

// Stop requests the worker to terminate; use Wait to join. Stopping a
// worker that never started releases the wrapped producer.
func (p *Producer[T]) Stop() {
	p.stop(func() { release(p.logger, "producer", p.producer.Close) })
}

// Produced returns the number of tasks placed on the queue. It is only
// meaningful once the worker is done.
func (p *Producer[T]) Produced() int {
	return p.produced
}

func (p *Producer[T]) run(ctx context.Context) {
	defer p.end()
	defer release(p.logger, "producer", p.producer.Close)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("producer panicked", "panic", r, "produced", p.produced, "stack", string(debug.Stack()))
		}
	}()

	for task, err := range p.producer.Items(ctx) {
		if p.stopRequested() {
			p.logger.Info("producer stopped", "produced", p.produced)
			return
		}
		if err != nil {
			p.logger.Warn("producer skipped item", "error", err)
			continue
		}
		if !p.put(ctx, task) {
			return
		}
		p.produced++
	}
	p.logger.Debug("producer exhausted", "produced", p.produced)
}

// put retries until the task is accepted. It gives up when the queue is
// closed or when the queue is full and a stop has been requested.
func (p *Producer[T]) put(ctx context.Context, task T) bool {
	ctx, span := tracing.StartSpan(ctx, "producer.put", tracing.KindProducer)
	span.WithAttributes(map[string]string{"worker": p.id})
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	for {
		err = p.queue.Put(task, p.config.PollTimeout)
		switch {
		case err == nil:
			progress.UpdateCtx(ctx, progress.Enqueued())
			return true
		case errors.Is(err, messaging.ErrFull):
			if p.stopRequested() {
				p.logger.Warn("producer abandoned task on full queue", "task", task, "produced", p.produced)
				return false
			}
		default:
			p.logger.Error("producer failed to enqueue", "error", err, "produced", p.produced)
			return false
		}
	}
}

var _ Worker = (*Producer[any])(nil)
