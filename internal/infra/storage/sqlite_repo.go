package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteAllocationRepository implements AllocationRepository for SQLite.
type SQLiteAllocationRepository struct {
	db *sql.DB
}

func NewSQLiteAllocationRepository(db *sql.DB) *SQLiteAllocationRepository {
	return &SQLiteAllocationRepository{db: db}
}

func (r *SQLiteAllocationRepository) Save(ctx context.Context, rec AllocationRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allocations (id, requested_at, room_count, adults, seniors, children, feasible)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RequestedAt, rec.RoomCount, rec.Adults, rec.Seniors, rec.Children, rec.Feasible)
	if err != nil {
		return fmt.Errorf("failed to insert allocation: %w", err)
	}

	for _, row := range rec.Rooms {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO allocation_rooms (allocation_id, room_index, adults, seniors, children)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, row.RoomIndex, row.Adults, row.Seniors, row.Children)
		if err != nil {
			return fmt.Errorf("failed to insert room %d: %w", row.RoomIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepository) GetByID(ctx context.Context, id string) (*AllocationRecord, error) {
	var rec AllocationRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT id, requested_at, room_count, adults, seniors, children, feasible
		FROM allocations WHERE id = ?
	`, id).Scan(&rec.ID, &rec.RequestedAt, &rec.RoomCount, &rec.Adults, &rec.Seniors, &rec.Children, &rec.Feasible)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation: %w", err)
	}

	rec.Rooms, err = r.roomsFor(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteAllocationRepository) List(ctx context.Context, limit int) ([]AllocationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, requested_at, room_count, adults, seniors, children, feasible
		FROM allocations ORDER BY requested_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var recs []AllocationRecord
	for rows.Next() {
		var rec AllocationRecord
		if err := rows.Scan(&rec.ID, &rec.RequestedAt, &rec.RoomCount, &rec.Adults, &rec.Seniors, &rec.Children, &rec.Feasible); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recs {
		recs[i].Rooms, err = r.roomsFor(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (r *SQLiteAllocationRepository) roomsFor(ctx context.Context, allocationID string) ([]RoomRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT room_index, adults, seniors, children
		FROM allocation_rooms WHERE allocation_id = ? ORDER BY room_index
	`, allocationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var out []RoomRow
	for rows.Next() {
		var row RoomRow
		if err := rows.Scan(&row.RoomIndex, &row.Adults, &row.Seniors, &row.Children); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) AppendEvent(ctx context.Context, event EventRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO allocation_events (id, timestamp, event_type, room_count, adults, seniors, children)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Timestamp, event.EventType, event.RoomCount, event.Adults, event.Seniors, event.Children)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) ListEvents(ctx context.Context, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, event_type, room_count, adults, seniors, children
		FROM allocation_events ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.RoomCount, &e.Adults, &e.Seniors, &e.Children); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
