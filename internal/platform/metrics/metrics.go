// Package metrics provides observability for the room planner service.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers service counters.
type Collector struct {
	// Allocation metrics
	RequestsTotal   int64
	FeasibleTotal   int64
	InfeasibleTotal int64
	RejectedTotal   int64
	AllocLatencySum int64 // nanoseconds
	AllocLatencyMax int64

	// Cache metrics
	CacheHits   int64
	CacheMisses int64

	// Storage metrics
	StorageWrites      int64
	StorageWriteErrors int64
	StorageLatencySum  int64
	StorageLatencyMax  int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordRequest records one allocation request and its outcome.
func (c *Collector) RecordRequest(feasible bool, latency time.Duration) {
	atomic.AddInt64(&c.RequestsTotal, 1)
	if feasible {
		atomic.AddInt64(&c.FeasibleTotal, 1)
	} else {
		atomic.AddInt64(&c.InfeasibleTotal, 1)
	}
	atomic.AddInt64(&c.AllocLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.AllocLatencyMax) {
		atomic.StoreInt64(&c.AllocLatencyMax, int64(latency))
	}
}

// RecordRejected records a request that failed boundary validation.
func (c *Collector) RecordRejected() {
	atomic.AddInt64(&c.RejectedTotal, 1)
}

// RecordCache records a cache lookup.
func (c *Collector) RecordCache(hit bool) {
	if hit {
		atomic.AddInt64(&c.CacheHits, 1)
	} else {
		atomic.AddInt64(&c.CacheMisses, 1)
	}
}

// RecordStorageWrite records a persistence call.
func (c *Collector) RecordStorageWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.StorageWrites, 1)
	atomic.AddInt64(&c.StorageLatencySum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.StorageLatencyMax) {
		atomic.StoreInt64(&c.StorageLatencyMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.StorageWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records an outgoing WebSocket broadcast.
func (c *Collector) RecordWSMessage() {
	atomic.AddInt64(&c.WSMessagesOut, 1)
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	requests := atomic.LoadInt64(&c.RequestsTotal)
	writes := atomic.LoadInt64(&c.StorageWrites)

	var allocAvg, storageAvg float64
	if requests > 0 {
		allocAvg = float64(atomic.LoadInt64(&c.AllocLatencySum)) / float64(requests) / 1e6 // ms
	}
	if writes > 0 {
		storageAvg = float64(atomic.LoadInt64(&c.StorageLatencySum)) / float64(writes) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"allocations": map[string]interface{}{
			"requests":       requests,
			"feasible":       atomic.LoadInt64(&c.FeasibleTotal),
			"infeasible":     atomic.LoadInt64(&c.InfeasibleTotal),
			"rejected":       atomic.LoadInt64(&c.RejectedTotal),
			"avg_latency_ms": allocAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.AllocLatencyMax)) / 1e6,
		},

		"cache": map[string]interface{}{
			"hits":   atomic.LoadInt64(&c.CacheHits),
			"misses": atomic.LoadInt64(&c.CacheMisses),
		},

		"storage": map[string]interface{}{
			"writes":         writes,
			"errors":         atomic.LoadInt64(&c.StorageWriteErrors),
			"avg_latency_ms": storageAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.StorageLatencyMax)) / 1e6,
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}
