package qworker_test

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/qworker"
	"github.com/viant/qworker/model/types"
	"github.com/viant/qworker/progress"
	"github.com/viant/qworker/runtime/orchestrator"
	"github.com/viant/qworker/service/printer"
	"github.com/viant/qworker/service/sequence"
)

//go:embed testdata/*
var embedFS embed.FS

// captureHandler records log messages.
type captureHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, record.Message)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) matching(expr *regexp.Regexp) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ret []string
	for _, msg := range h.messages {
		if expr.MatchString(msg) {
			ret = append(ret, msg)
		}
	}
	return ret
}

func TestService_PrintsEveryTask(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	var consumers []types.Consumer[int]
	for i := 0; i < 4; i++ {
		consumers = append(consumers, printer.New[int](fmt.Sprintf("consumer-%d", i),
			printer.WithLogger(logger), printer.WithPause(2*time.Millisecond)))
	}
	srv, err := qworker.New[int](sequence.New(0, 100, logger), consumers,
		qworker.WithLogger(logger), qworker.WithStartupDelay(10*time.Millisecond))
	require.NoError(t, err)

	require.NoError(t, srv.Start(context.Background()))

	lines := handler.matching(regexp.MustCompile(`^consumer-\d+-\d+$`))
	assert.Len(t, lines, 100)
	seen := map[string]bool{}
	values := map[string]bool{}
	valueExpr := regexp.MustCompile(`-(\d+)$`)
	for _, line := range lines {
		assert.False(t, seen[line], "duplicate line %s", line)
		seen[line] = true
		values[valueExpr.FindStringSubmatch(line)[1]] = true
	}
	for i := 0; i < 100; i++ {
		assert.True(t, values[fmt.Sprint(i)], "value %d not printed", i)
	}
	assert.Len(t, handler.matching(regexp.MustCompile(`^consumer-\d+ stopped$`)), 4)
	assert.Len(t, handler.matching(regexp.MustCompile(`^sequence stopped$`)), 1)

	stats := srv.Stats()
	assert.EqualValues(t, 100, stats.Enqueued)
	assert.EqualValues(t, 100, stats.Completed)
	assert.EqualValues(t, 0, stats.Failed)

	snapshot := srv.Progress()
	assert.Equal(t, 100, snapshot.TotalTasks)
	assert.Equal(t, 100, snapshot.CompletedTasks)
	assert.Equal(t, 0, snapshot.RunningTasks)
	assert.Equal(t, 0, snapshot.PendingTasks)
}

func TestNew_Validation(t *testing.T) {
	consumer := types.ConsumerFunc[int](func(ctx context.Context, task int) error { return nil })

	_, err := qworker.New[int](nil, []types.Consumer[int]{consumer})
	assert.ErrorIs(t, err, qworker.ErrNoProducer)

	_, err = qworker.New[int](types.Slice(1), nil)
	assert.ErrorIs(t, err, qworker.ErrNoConsumers)

	_, err = qworker.New[int](types.Slice(1), []types.Consumer[int]{consumer, nil})
	assert.ErrorIs(t, err, qworker.ErrNoConsumers)

	_, err = qworker.New[int](types.Slice(1), []types.Consumer[int]{consumer}, qworker.WithQueueCapacity(-1))
	assert.Error(t, err)

	srv, err := qworker.New[int](types.Slice(1, 2), []types.Consumer[int]{consumer}, qworker.WithConfig(&qworker.Config{
		Graceful: true,
		Queue:    qworker.QueueConfig{PollTimeout: 5 * time.Millisecond},
	}), qworker.WithLogger(slog.New(&captureHandler{})))
	require.NoError(t, err, "pool size comes from the consumers argument")
	require.NoError(t, srv.Start(context.Background()))
	assert.EqualValues(t, 2, srv.Stats().Completed)
}

func TestService_FailuresAreCounted(t *testing.T) {
	failing := types.ConsumerFunc[int](func(ctx context.Context, task int) error {
		if task%10 == 0 {
			panic("unexpected task")
		}
		return errors.New("rejected")
	})
	registry := prometheus.NewRegistry()
	var updates int
	var mu sync.Mutex
	srv, err := qworker.New[int](types.Slice(0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11), []types.Consumer[int]{failing, failing},
		qworker.WithLogger(slog.New(&captureHandler{})),
		qworker.WithStartupDelay(0),
		qworker.WithMetrics(registry),
		qworker.WithProgressListener(func(p progress.Progress) {
			mu.Lock()
			updates++
			mu.Unlock()
		}))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	stats := srv.Stats()
	assert.EqualValues(t, 12, stats.Completed)
	assert.EqualValues(t, 12, stats.Failed)
	assert.Equal(t, 12, srv.Progress().FailedTasks)

	mu.Lock()
	assert.Equal(t, 36, updates, "enqueue, dequeue and finish per task")
	mu.Unlock()

	count, err := testutil.GatherAndCount(registry, "qworker_tasks_failed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_Interrupt(t *testing.T) {
	slow := types.ConsumerFunc[int](func(ctx context.Context, task int) error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	srv, err := qworker.New[int](sequence.New(0, 1000, nil), []types.Consumer[int]{slow, slow},
		qworker.WithLogger(slog.New(&captureHandler{})),
		qworker.WithQueueCapacity(10),
		qworker.WithStartupDelay(0),
		qworker.WithGraceful(true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)
	err = srv.Start(ctx)
	assert.ErrorIs(t, err, orchestrator.ErrInterrupted)

	stats := srv.Stats()
	assert.Less(t, stats.Enqueued, int64(1000))
	assert.EqualValues(t, 0, stats.Outstanding(), "graceful interrupt drains the queue")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("QWORKER_CAPACITY", "16")
	config, err := qworker.LoadConfig(context.Background(), "embed:///testdata/config.yaml", &embedFS)
	require.NoError(t, err)

	expect := qworker.DefaultConfig()
	expect.Graceful = true
	expect.StartupDelay = 20 * time.Millisecond
	expect.Consumers = 3
	expect.Queue.Capacity = 16
	expect.Queue.PollTimeout = 5 * time.Millisecond
	assert.Equal(t, expect, config)

	consumer := types.ConsumerFunc[int](func(ctx context.Context, task int) error { return nil })
	srv, err := qworker.NewFromConfig[int](config, types.Slice(1, 2, 3), []types.Consumer[int]{consumer},
		qworker.WithLogger(slog.New(&captureHandler{})))
	require.NoError(t, err)
	assert.Equal(t, config, srv.Config())
	require.NoError(t, srv.Start(context.Background()))
	assert.EqualValues(t, 3, srv.Stats().Completed)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(c *qworker.Config)
		expectErr bool
	}{
		{name: "defaults", mutate: func(c *qworker.Config) {}},
		{name: "negative capacity", mutate: func(c *qworker.Config) { c.Queue.Capacity = -1 }, expectErr: true},
		{name: "zero poll timeout", mutate: func(c *qworker.Config) { c.Queue.PollTimeout = 0 }, expectErr: true},
		{name: "zero consumers selects default", mutate: func(c *qworker.Config) { c.Consumers = 0 }},
		{name: "negative consumers", mutate: func(c *qworker.Config) { c.Consumers = -1 }, expectErr: true},
		{name: "negative startup delay", mutate: func(c *qworker.Config) { c.StartupDelay = -time.Second }, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := qworker.DefaultConfig()
			tc.mutate(config)
			if tc.expectErr {
				assert.Error(t, config.Validate())
				return
			}
			assert.NoError(t, config.Validate())
		})
	}
}
