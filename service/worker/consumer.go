package worker

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/viant/qworker/internal/idgen"
	"github.com/viant/qworker/model/types"
	"github.com/viant/qworker/progress"
	"github.com/viant/qworker/service/messaging"
	"github.com/viant/qworker/tracing"
)

// Consumer repeatedly takes a task from the queue and hands it to a
// types.Consumer. A task that fails or panics is logged and marked complete;
// the worker keeps going.
type Consumer[T any] struct {
	*lifecycle
	*options
	queue    messaging.Queue[T]
	consumer types.Consumer[T]
}

// NewConsumer creates an idle consumer worker
func NewConsumer[T any](queue messaging.Queue[T], consumer types.Consumer[T], opts ...Option) *Consumer[T] {
	o := newOptions("consumer-"+idgen.Short(), opts)
	return &Consumer[T]{
		lifecycle: newLifecycle(),
		options:   o,
		queue:     queue,
		consumer:  consumer,
	}
}

// Start launches the worker goroutine. Subsequent calls are no-ops.
func (c *Consumer[T]) Start(ctx context.Context) {
	runCtx, ok := c.begin(ctx)
	if !ok {
		return
	}
	c.logger.Debug("consumer started")
	go c.run(runCtx)
}

// Stop requests the worker to terminate once its current task completes.
// Stopping a worker that never started releases the wrapped consumer.
func (c *Consumer[T]) Stop() {
	c.stop(func() { release(c.logger, "consumer", c.consumer.Close) })
}

func (c *Consumer[T]) run(ctx context.Context) {
	defer c.end()
	defer release(c.logger, "consumer", c.consumer.Close)

	for !c.stopRequested() {
		msg, err := c.queue.Get(c.config.PollTimeout)
		if err != nil {
			switch {
			case errors.Is(err, messaging.ErrEmpty):
			case errors.Is(err, messaging.ErrClosed):
				c.logger.Debug("consumer queue closed")
				return
			default:
				c.logger.Warn("consumer failed to dequeue", "error", err)
				time.Sleep(c.config.PollTimeout)
			}
			continue
		}
		c.process(ctx, msg)
	}
	c.logger.Debug("consumer stopped")
}

// process runs one task to completion. Stop does not preempt it.
func (c *Consumer[T]) process(ctx context.Context, msg messaging.Message[T]) {
	ctx = context.WithoutCancel(ctx)
	progress.UpdateCtx(ctx, progress.Dequeued())
	ctx, span := tracing.StartSpan(ctx, "consumer.consume", tracing.KindConsumer)
	span.WithAttributes(map[string]string{"worker": c.id, "message.id": msg.ID()})

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = types.NewPanicError(r, debug.Stack())
		}
		c.complete(ctx, msg, err)
		tracing.EndSpan(span, err)
	}()
	err = c.consumer.Consume(ctx, msg.T())
}

func (c *Consumer[T]) complete(ctx context.Context, msg messaging.Message[T], err error) {
	failed := err != nil
	var ackErr error
	if failed {
		args := []any{"message", msg.ID(), "task", msg.T(), "error", err}
		var panicErr *types.PanicError
		if errors.As(err, &panicErr) {
			args = append(args, "stack", string(panicErr.Stack))
		}
		c.logger.Error("task failed", args...)
		ackErr = msg.Nack(err)
	} else {
		ackErr = msg.Ack()
	}
	if ackErr != nil {
		c.logger.Warn("failed to complete message", "message", msg.ID(), "error", ackErr)
	}
	progress.UpdateCtx(ctx, progress.Finished(failed))
}

var _ Worker = (*Consumer[any])(nil)
