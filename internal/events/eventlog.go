// Package events provides the append-only audit log of allocation activity.
// Every request and its outcome is recorded here before anything is
// broadcast or persisted elsewhere.
package events

import (
	"sync"
	"time"

	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
)

// EventType defines the category of an allocation event.
type EventType string

const (
	EventTypeAllocationRequested EventType = "ALLOCATION_REQUESTED"
	EventTypeAllocationCompleted EventType = "ALLOCATION_COMPLETED"
	EventTypeAllocationRejected  EventType = "ALLOCATION_REJECTED"
)

// AllocationEvent is an immutable record of one allocation attempt.
type AllocationEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	RoomCount int `json:"room_count"`
	Adults    int `json:"adults"`
	Seniors   int `json:"seniors"`
	Children  int `json:"children"`

	// Rooms is only set on ALLOCATION_COMPLETED events.
	Rooms []room.Room `json:"rooms,omitempty"`
}

// Persister defines how an event is durably stored.
type Persister interface {
	Append(event AllocationEvent) error
}

// EventLog is the in-memory append-only log of allocation events.
type EventLog struct {
	mu        sync.RWMutex
	events    []AllocationEvent
	persister Persister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister Persister) *EventLog {
	return &EventLog{
		events:    make([]AllocationEvent, 0),
		persister: persister,
	}
}

// Append adds an event to the log and forwards it to the persister if one
// is configured. The in-memory log is the source of truth for replays;
// persistence failures are surfaced but do not drop the event.
func (l *EventLog) Append(event AllocationEvent) error {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	if l.persister != nil {
		return l.persister.Append(event)
	}
	return nil
}

// Load replaces the in-memory log with previously persisted events, in
// append order. Used at startup to rehydrate from storage; nothing is
// forwarded to the persister.
func (l *EventLog) Load(events []AllocationEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = make([]AllocationEvent, len(events))
	copy(l.events, events)
}

// Replay returns a copy of all events in append order.
func (l *EventLog) Replay() []AllocationEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]AllocationEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
