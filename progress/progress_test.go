package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/qworker/internal/clock"
)

func TestProgress_Update(t *testing.T) {
	var changes []Progress
	ctx, tr := WithNewTracker(context.Background(), "run-1", "demo", func(p Progress) {
		changes = append(changes, p)
	})

	UpdateCtx(ctx, Enqueued())
	UpdateCtx(ctx, Enqueued())
	UpdateCtx(ctx, Dequeued())
	UpdateCtx(ctx, Finished(true))

	snapshot, ok := GetSnapshot(ctx)
	require.True(t, ok)
	assert.Equal(t, "run-1", snapshot.RunID)
	assert.Equal(t, 2, snapshot.TotalTasks)
	assert.Equal(t, 1, snapshot.PendingTasks)
	assert.Equal(t, 0, snapshot.RunningTasks)
	assert.Equal(t, 1, snapshot.CompletedTasks)
	assert.Equal(t, 1, snapshot.FailedTasks)
	assert.Len(t, changes, 4)
	assert.Equal(t, tr.Snapshot(), snapshot)
}

func TestProgress_Concurrent(t *testing.T) {
	tr := New("run", "concurrent", nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Update(Enqueued())
			tr.Update(Dequeued())
			tr.Update(Finished(false))
		}()
	}
	wg.Wait()
	snapshot := tr.Snapshot()
	assert.Equal(t, 50, snapshot.TotalTasks)
	assert.Equal(t, 50, snapshot.CompletedTasks)
	assert.Equal(t, 0, snapshot.PendingTasks)
	assert.Equal(t, 0, snapshot.RunningTasks)
}

func TestProgress_NoTracker(t *testing.T) {
	ctx := context.Background()
	UpdateCtx(ctx, Enqueued())
	_, ok := GetSnapshot(ctx)
	assert.False(t, ok)

	var tr *Progress
	tr.Update(Enqueued())
	assert.Equal(t, Progress{}, tr.Snapshot())
}

func TestProgress_Elapsed(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	restore := clock.Freeze(started)
	tr := New("run", "elapsed", nil)
	restore()

	defer clock.Freeze(started.Add(90 * time.Second))()
	assert.Equal(t, 90*time.Second, tr.Elapsed())
	assert.Equal(t, started, tr.Snapshot().StartedAt)

	var empty Progress
	assert.Zero(t, empty.Elapsed())
}
