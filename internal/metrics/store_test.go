package metrics_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekmenu/internal/database"
	"weekmenu/internal/llm"
	"weekmenu/internal/metrics"
)

func newStore(t *testing.T) *metrics.Store {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return metrics.NewStore(db.SQL)
}

func TestRecordAndDailyUsage(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordUsage(ctx, "caption-parser", "test-model",
		llm.TokenUsage{PromptTokens: 120, CompletionTokens: 40}, 800*time.Millisecond))
	require.NoError(t, s.RecordUsage(ctx, "caption-parser", "test-model",
		llm.TokenUsage{PromptTokens: 80, CompletionTokens: 20}, 500*time.Millisecond))

	usage, err := s.GetDailyUsage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 2, usage[0].Calls)
	assert.Equal(t, 200, usage[0].PromptTokens)
	assert.Equal(t, 60, usage[0].CompletionTokens)
}

func TestRecordUsageSkipsEmpty(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordUsage(ctx, "caption-parser", "test-model", llm.TokenUsage{}, time.Second))

	usage, err := s.GetDailyUsage(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, usage)
}

func TestCleanupRemovesOldRecords(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, metrics.ExecutionMetric{
		Agent: "caption-parser", Model: "test-model", PromptTokens: 10,
		Timestamp: time.Now().UTC().AddDate(0, 0, -120),
	}))
	require.NoError(t, s.Record(ctx, metrics.ExecutionMetric{
		Agent: "caption-parser", Model: "test-model", PromptTokens: 10,
		Timestamp: time.Now().UTC(),
	}))

	removed, err := s.Cleanup(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	usage, err := s.GetDailyUsage(ctx, 200)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].Calls)
}
