package allocation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoratilla/RoomPlanner/server/internal/domain/party"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
	"github.com/lmoratilla/RoomPlanner/server/internal/events"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
)

type stubStore struct {
	mu    sync.Mutex
	saved []Result
}

func (s *stubStore) Save(_ context.Context, res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, res)
	return nil
}

type stubCache struct {
	entries map[string][]room.Room
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]room.Room)}
}

func (c *stubCache) Get(_ context.Context, req party.Request) ([]room.Room, bool) {
	rooms, ok := c.entries[req.CacheKey()]
	return rooms, ok
}

func (c *stubCache) Set(_ context.Context, req party.Request, rooms []room.Room) {
	c.entries[req.CacheKey()] = rooms
}

type stubBroadcaster struct {
	results []Result
}

func (b *stubBroadcaster) BroadcastResult(res Result) {
	b.results = append(b.results, res)
}

func TestServiceAllocateFeasible(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	broadcaster := &stubBroadcaster{}
	eventLog := events.NewEventLog(nil)

	svc := NewService(0, eventLog, store, cache, broadcaster, logger.NewNop())
	req := party.Request{RoomCount: 2, Adults: 2, Seniors: 2, Children: 1}

	res, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Rooms, 2)

	require.Len(t, store.saved, 1)
	assert.Equal(t, res.ID, store.saved[0].ID)
	require.Len(t, broadcaster.results, 1)

	// REQUESTED followed by COMPLETED.
	replay := eventLog.Replay()
	require.Len(t, replay, 2)
	assert.Equal(t, events.EventTypeAllocationRequested, replay[0].Type)
	assert.Equal(t, events.EventTypeAllocationCompleted, replay[1].Type)
}

func TestServiceAllocateCacheHit(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	broadcaster := &stubBroadcaster{}
	eventLog := events.NewEventLog(nil)

	svc := NewService(4, eventLog, store, cache, broadcaster, logger.NewNop())
	req := party.Request{RoomCount: 1, Adults: 2}

	first, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Rooms, second.Rooms)
	assert.Len(t, store.saved, 1, "cache hit must not persist again")

	// The hit still reaches subscribers and the audit trail.
	require.Len(t, broadcaster.results, 2)
	assert.Equal(t, second.ID, broadcaster.results[1].ID)
	replay := eventLog.Replay()
	require.Len(t, replay, 4)
	assert.Equal(t, events.EventTypeAllocationRequested, replay[2].Type)
	assert.Equal(t, events.EventTypeAllocationCompleted, replay[3].Type)
}

func TestServiceAllocateInfeasible(t *testing.T) {
	store := &stubStore{}
	broadcaster := &stubBroadcaster{}
	eventLog := events.NewEventLog(nil)

	svc := NewService(4, eventLog, store, nil, broadcaster, logger.NewNop())
	req := party.Request{RoomCount: 1, Children: 2}

	res, err := svc.Allocate(context.Background(), req)
	require.NoError(t, err, "infeasibility is not an error")
	assert.False(t, res.Feasible)
	assert.Empty(t, res.Rooms)

	require.Len(t, store.saved, 1, "infeasible outcomes are still recorded")
	assert.False(t, store.saved[0].Feasible)
	assert.Empty(t, broadcaster.results)

	replay := eventLog.Replay()
	require.Len(t, replay, 2)
	assert.Equal(t, events.EventTypeAllocationRejected, replay[1].Type)
}

func TestServiceAllocateRejectsMalformedRequest(t *testing.T) {
	svc := NewService(4, events.NewEventLog(nil), nil, nil, nil, logger.NewNop())

	_, err := svc.Allocate(context.Background(), party.Request{RoomCount: 1, Adults: -2})
	assert.Error(t, err)
}
