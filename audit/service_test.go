package audit

import (
	"context"
	"testing"

	"github.com/Nam088/drinking-game-v2/model"
	"github.com/Nam088/drinking-game-v2/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_StartsWorker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())
	require.NotNil(t, svc)
	svc.Stop(context.Background())
}

func TestLog_EnqueuedAndFlushed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	svc.Log(Entry{
		TraceID:    "trace-123",
		Action:     "seed",
		Source:     "data.csv",
		Count:      42,
		Detail:     map[string]string{"file": "data.csv"},
		IP:         "127.0.0.1",
		DurationMs: 12,
	})

	// Stop flushes remaining entries.
	svc.Stop(context.Background())

	var logs []model.DeckAudit
	db.Find(&logs)
	require.Len(t, logs, 1)
	assert.Equal(t, "trace-123", logs[0].TraceID)
	assert.Equal(t, "seed", logs[0].Action)
	assert.Equal(t, 42, logs[0].Count)
	assert.JSONEq(t, `{"file":"data.csv"}`, string(logs[0].Detail))
}

func TestStop_Twice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())
	svc.Stop(context.Background())
	svc.Stop(context.Background())
}
