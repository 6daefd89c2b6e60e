package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lmoratilla/RoomPlanner/server/internal/domain/party"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
	"github.com/lmoratilla/RoomPlanner/server/internal/events"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/metrics"
)

// Result is the outcome of one allocation request.
type Result struct {
	ID          string        `json:"id"`
	Request     party.Request `json:"request"`
	Feasible    bool          `json:"feasible"`
	Rooms       []room.Room   `json:"rooms,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
}

// Store persists finished allocations. Implemented by infra/storage via an
// adapter in the composition root.
type Store interface {
	Save(ctx context.Context, res Result) error
}

// Cache fronts the store for repeat requests.
type Cache interface {
	Get(ctx context.Context, req party.Request) ([]room.Room, bool)
	Set(ctx context.Context, req party.Request, rooms []room.Room)
}

// Broadcaster pushes completed allocations to live subscribers.
type Broadcaster interface {
	BroadcastResult(res Result)
}

// Service orchestrates the allocator with the event log, cache, storage
// and broadcast layers. The pure Distribute function stays usable on its
// own; the Service is what the network layer talks to.
type Service struct {
	capacity    int
	eventLog    *events.EventLog
	store       Store
	cache       Cache
	broadcaster Broadcaster
	logger      *logger.Logger
	metrics     *metrics.Collector
}

// NewService wires the allocation service. store, cache and broadcaster may
// be nil; the corresponding step is skipped.
func NewService(capacity int, eventLog *events.EventLog, store Store, cache Cache, broadcaster Broadcaster, log *logger.Logger) *Service {
	if capacity <= 0 {
		capacity = room.DefaultCapacity
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		capacity:    capacity,
		eventLog:    eventLog,
		store:       store,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      log,
		metrics:     metrics.Get(),
	}
}

// Capacity returns the per-room capacity the service allocates with.
func (s *Service) Capacity() int {
	return s.capacity
}

// Allocate validates the request, runs the allocator and fans the result
// out to the event log, cache, storage and broadcast layers. Infeasibility
// is a normal outcome, not an error; errors are reserved for malformed
// requests and infrastructure failures.
func (s *Service) Allocate(ctx context.Context, req party.Request) (Result, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordRejected()
		s.appendEvent(events.EventTypeAllocationRejected, req, nil)
		return Result{}, fmt.Errorf("invalid allocation request: %w", err)
	}

	s.appendEvent(events.EventTypeAllocationRequested, req, nil)

	if s.cache != nil {
		if rooms, ok := s.cache.Get(ctx, req); ok {
			s.metrics.RecordCache(true)
			res := Result{
				ID:          uuid.NewString(),
				Request:     req,
				Feasible:    true,
				Rooms:       rooms,
				RequestedAt: time.Now(),
			}
			// A hit skips persistence, but the audit trail and the live
			// feed still see the outcome like any other request.
			s.appendEvent(events.EventTypeAllocationCompleted, req, rooms)
			if s.broadcaster != nil {
				s.broadcaster.BroadcastResult(res)
			}
			return res, nil
		}
		s.metrics.RecordCache(false)
	}

	started := time.Now()
	rooms := DistributeWithCapacity(req.RoomCount, req.Adults, req.Seniors, req.Children, s.capacity)
	elapsed := time.Since(started)

	res := Result{
		ID:          uuid.NewString(),
		Request:     req,
		Feasible:    len(rooms) > 0,
		Rooms:       rooms,
		RequestedAt: started,
	}
	s.metrics.RecordRequest(res.Feasible, elapsed)

	if res.Feasible {
		s.appendEvent(events.EventTypeAllocationCompleted, req, rooms)
	} else {
		s.appendEvent(events.EventTypeAllocationRejected, req, nil)
		s.logger.Info("no feasible assignment",
			"rooms", req.RoomCount, "adults", req.Adults,
			"seniors", req.Seniors, "children", req.Children)
	}

	if s.store != nil {
		writeStart := time.Now()
		err := s.store.Save(ctx, res)
		s.metrics.RecordStorageWrite(time.Since(writeStart), err)
		if err != nil {
			// The allocation itself succeeded; keep serving it.
			s.logger.Error("failed to persist allocation", "id", res.ID, "error", err)
		}
	}

	if res.Feasible {
		if s.cache != nil {
			s.cache.Set(ctx, req, rooms)
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastResult(res)
		}
	}

	return res, nil
}

func (s *Service) appendEvent(t events.EventType, req party.Request, rooms []room.Room) {
	if s.eventLog == nil {
		return
	}
	err := s.eventLog.Append(events.AllocationEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      t,
		RoomCount: req.RoomCount,
		Adults:    req.Adults,
		Seniors:   req.Seniors,
		Children:  req.Children,
		Rooms:     rooms,
	})
	if err != nil {
		s.logger.Error("failed to persist allocation event", "type", string(t), "error", err)
	}
}
