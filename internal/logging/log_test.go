package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmednasr/namastebot/internal/config"
)

func TestShouldAlert(t *testing.T) {
	ctx := context.Background()

	info := slog.NewRecord(time.Now(), slog.LevelInfo, "Session created", 0)
	assert.False(t, shouldAlert(ctx, info))

	flagged := slog.NewRecord(time.Now(), slog.LevelInfo, "Deploy finished", 0)
	flagged.AddAttrs(slog.Bool(AlertKey, true))
	assert.True(t, shouldAlert(ctx, flagged))

	failure := slog.NewRecord(time.Now(), slog.LevelError, "Mongo unreachable", 0)
	assert.True(t, shouldAlert(ctx, failure))
}

func TestInit_ConsoleOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, Init(config.Config{}))
	assert.NotSame(t, prev, slog.Default())
}
