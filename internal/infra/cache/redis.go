// Package cache provides Redis-based caching of allocation results.
// The cache is a read accelerator for repeat requests, not the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/lmoratilla/RoomPlanner/server/internal/domain/party"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
)

// DefaultTTL is how long a cached result stays valid.
const DefaultTTL = 15 * time.Minute

// ResultCache caches room layouts keyed by the request quadruple.
// A nil client disables the cache; every lookup misses and sets are no-ops.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a new result cache. client may be nil.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Get returns the cached room layout for a request, if present.
func (c *ResultCache) Get(ctx context.Context, req party.Request) ([]room.Room, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, req.CacheKey()).Result()
	if err != nil {
		// redis.Nil and transport errors alike are plain misses.
		return nil, false
	}
	var rooms []room.Room
	if err := json.Unmarshal([]byte(raw), &rooms); err != nil {
		return nil, false
	}
	return rooms, true
}

// Set stores a feasible room layout. Failures are silently dropped; the
// next request simply recomputes.
func (c *ResultCache) Set(ctx context.Context, req party.Request, rooms []room.Room) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(rooms)
	if err != nil {
		return
	}
	c.client.Set(ctx, req.CacheKey(), raw, c.ttl)
}

// Invalidate removes a cached entry, for operational cleanup.
func (c *ResultCache) Invalidate(ctx context.Context, req party.Request) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, req.CacheKey())
}
