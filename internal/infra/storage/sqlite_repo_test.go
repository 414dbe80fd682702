package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*SQLiteEventRepository, *SQLiteSessionRepository) {
	t.Helper()

	db, err := InitSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSQLiteEventRepository(db), NewSQLiteSessionRepository(db)
}

func TestEventAppendAndQuery(t *testing.T) {
	events, _ := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, events.Append(ctx, GameEvent{
		ID: "E1", SessionID: "S1", Timestamp: base,
		EventType: "ORDER_CREATED", OrderID: 1,
		Payload: map[string]interface{}{"slot": float64(0)},
	}))
	require.NoError(t, events.Append(ctx, GameEvent{
		ID: "E2", SessionID: "S1", Timestamp: base.Add(time.Second),
		EventType: "ORDER_COMPLETED", OrderID: 1,
		Payload: map[string]interface{}{"reward": float64(200)},
	}))
	require.NoError(t, events.Append(ctx, GameEvent{
		ID: "E3", SessionID: "S2", Timestamp: base.Add(2 * time.Second),
		EventType: "ORDER_CREATED", OrderID: 1,
	}))

	bySession, err := events.GetBySessionID(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, bySession, 2)
	assert.Equal(t, "E1", bySession[0].ID)
	assert.Equal(t, uint64(1), bySession[0].OrderID)

	byType, err := events.GetByEventType(ctx, "S1", "ORDER_COMPLETED")
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, float64(200), byType[0].Payload["reward"])
}

func TestSessionUpsertAndList(t *testing.T) {
	_, sessions := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := SessionRecord{
		SessionID: "S1", StartedAt: base, EndedAt: base.Add(2 * time.Minute),
		FinalScore: 450, OrdersCompleted: 3, OrdersFailed: 1,
	}
	require.NoError(t, sessions.Upsert(ctx, rec))

	// Upsert again with a corrected score.
	rec.FinalScore = 500
	require.NoError(t, sessions.Upsert(ctx, rec))

	got, err := sessions.GetBySessionID(ctx, "S1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 500, got.FinalScore)
	assert.Equal(t, 3, got.OrdersCompleted)

	missing, err := sessions.GetBySessionID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, sessions.Upsert(ctx, SessionRecord{
		SessionID: "S2", StartedAt: base.Add(time.Hour), EndedAt: base.Add(time.Hour + 2*time.Minute),
	}))

	recent, err := sessions.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "S2", recent[0].SessionID) // newest first
}
