package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *SQLiteAllocationRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteAllocationRepository(db)
}

func sampleRecord(id string, at time.Time) AllocationRecord {
	return AllocationRecord{
		ID:          id,
		RequestedAt: at,
		RoomCount:   2,
		Adults:      2,
		Seniors:     2,
		Children:    1,
		Feasible:    true,
		Rooms: []RoomRow{
			{RoomIndex: 0, Adults: 2, Children: 1},
			{RoomIndex: 1, Seniors: 2},
		},
	}
}

func TestSQLiteSaveAndGet(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	rec := sampleRecord("A1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.GetByID(ctx, "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.RoomCount, got.RoomCount)
	assert.True(t, got.Feasible)
	require.Len(t, got.Rooms, 2)
	assert.Equal(t, rec.Rooms, got.Rooms)
}

func TestSQLiteGetMissing(t *testing.T) {
	repo := newTestDB(t)

	got, err := repo.GetByID(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteListNewestFirst(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, sampleRecord("OLD", base.Add(-time.Hour))))
	require.NoError(t, repo.Save(ctx, sampleRecord("NEW", base)))

	recs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "NEW", recs[0].ID)
	assert.Equal(t, "OLD", recs[1].ID)
	assert.Len(t, recs[0].Rooms, 2)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteEventRepository(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLiteEventRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, repo.AppendEvent(ctx, EventRecord{
		ID: "E1", Timestamp: base.Add(-time.Minute), EventType: "ALLOCATION_REQUESTED",
		RoomCount: 2, Adults: 2, Seniors: 2, Children: 1,
	}))
	require.NoError(t, repo.AppendEvent(ctx, EventRecord{
		ID: "E2", Timestamp: base, EventType: "ALLOCATION_COMPLETED",
		RoomCount: 2, Adults: 2, Seniors: 2, Children: 1,
	}))

	events, err := repo.ListEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "E2", events[0].ID)
	assert.Equal(t, "ALLOCATION_COMPLETED", events[0].EventType)
}
