// Package storage provides the persistence layer for the room planner.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// RoomRow is the persisted occupancy of one room within an allocation.
type RoomRow struct {
	RoomIndex int `json:"room_index" db:"room_index"`
	Adults    int `json:"adults" db:"adults"`
	Seniors   int `json:"seniors" db:"seniors"`
	Children  int `json:"children" db:"children"`
}

// AllocationRecord mirrors a finished allocation for persistence.
// The domain package should NOT import this; use interfaces instead.
type AllocationRecord struct {
	ID          string    `json:"id" db:"id"`
	RequestedAt time.Time `json:"requested_at" db:"requested_at"`
	RoomCount   int       `json:"room_count" db:"room_count"`
	Adults      int       `json:"adults" db:"adults"`
	Seniors     int       `json:"seniors" db:"seniors"`
	Children    int       `json:"children" db:"children"`
	Feasible    bool      `json:"feasible" db:"feasible"`
	Rooms       []RoomRow `json:"rooms"`
}

// AllocationRepository defines the interface for allocation persistence.
type AllocationRepository interface {
	// Save stores an allocation and its room layout atomically.
	Save(ctx context.Context, rec AllocationRecord) error

	// GetByID retrieves a single allocation with its rooms.
	GetByID(ctx context.Context, id string) (*AllocationRecord, error)

	// List retrieves the most recent allocations, newest first.
	List(ctx context.Context, limit int) ([]AllocationRecord, error)
}

// EventRecord mirrors an audit-log event for persistence.
type EventRecord struct {
	ID        string    `json:"id" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	EventType string    `json:"event_type" db:"event_type"`
	RoomCount int       `json:"room_count" db:"room_count"`
	Adults    int       `json:"adults" db:"adults"`
	Seniors   int       `json:"seniors" db:"seniors"`
	Children  int       `json:"children" db:"children"`
}

// EventRepository defines the interface for the durable audit trail.
type EventRepository interface {
	// AppendEvent adds an event to the immutable ledger.
	AppendEvent(ctx context.Context, event EventRecord) error

	// ListEvents retrieves the most recent events, newest first.
	ListEvents(ctx context.Context, limit int) ([]EventRecord, error)
}
