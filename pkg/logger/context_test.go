package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/asyncpq/pkg/logger"
)

func TestContextWithAttrs(t *testing.T) {
	t.Parallel()

	t.Run("accumulates", func(t *testing.T) {
		t.Parallel()

		base := context.Background()
		assert.Equal(t, base, logger.ContextWithAttrs(base))
		assert.Empty(t, logger.AttrsFromContext(base))

		outer := logger.ContextWithAttrs(base, logger.Queue("q"))
		inner := logger.ContextWithAttrs(outer, logger.Component("c"))

		require.Len(t, logger.AttrsFromContext(outer), 1)
		attrs := logger.AttrsFromContext(inner)
		require.Len(t, attrs, 2)
		assert.Equal(t, "queue", attrs[0].Key)
		assert.Equal(t, "component", attrs[1].Key)
	})

	t.Run("records pick up context attributes", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))

		ctx := logger.ContextWithAttrs(context.Background(), slog.String("run", "r1"))
		log.With(logger.Component("c")).InfoContext(ctx, "with ctx")
		entry := decode(t, buf)
		assert.Equal(t, "r1", entry["run"])
		assert.Equal(t, "c", entry["component"])

		buf.Reset()
		log.Info("without ctx")
		assert.NotContains(t, decode(t, buf), "run")
	})

	t.Run("groups keep context attributes inside", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf)).WithGroup("g")
		log.InfoContext(logger.ContextWithAttrs(context.Background(), slog.Int("n", 1)), "grouped")

		group, ok := decode(t, buf)["g"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 1, group["n"], 0)
	})
}

func TestNewContextHandler(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := logger.NewContextHandler(slog.NewJSONHandler(buf, nil))
	assert.Equal(t, h, logger.NewContextHandler(h))

	ctx := logger.ContextWithAttrs(context.Background(), logger.Queue("plain"))
	slog.New(h).InfoContext(ctx, "msg")
	assert.Equal(t, "plain", decode(t, buf)["queue"])
}
