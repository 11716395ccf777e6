package printer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/qworker/model/types"
)

func TestService_Consume(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	var consumer types.Consumer[int] = New[int]("consumer-1", WithLogger(logger), WithPause(5*time.Millisecond))

	started := time.Now()
	require.NoError(t, consumer.Consume(context.Background(), 42))
	assert.GreaterOrEqual(t, time.Since(started), 5*time.Millisecond)
	require.NoError(t, consumer.Close())

	assert.Equal(t, "msg=consumer-1-42\nmsg=\"consumer-1 stopped\"\n", buf.String())
}

func TestService_ConsumeCancelledPause(t *testing.T) {
	srv := New[string]("p", WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))), WithPause(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, srv.Consume(ctx, "x"), context.Canceled)
}
