// Package storage - postgres.go
// PostgreSQL implementation of AllocationRepository, for deployments that
// outgrow the embedded SQLite file.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// InitPostgres opens a PostgreSQL connection and ensures the schema exists.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS allocations (
			id TEXT PRIMARY KEY,
			requested_at TIMESTAMPTZ NOT NULL,
			room_count INTEGER NOT NULL,
			adults INTEGER NOT NULL,
			seniors INTEGER NOT NULL,
			children INTEGER NOT NULL,
			feasible BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		`CREATE TABLE IF NOT EXISTS allocation_rooms (
			allocation_id TEXT NOT NULL REFERENCES allocations(id),
			room_index INTEGER NOT NULL,
			adults INTEGER NOT NULL,
			seniors INTEGER NOT NULL,
			children INTEGER NOT NULL,
			PRIMARY KEY (allocation_id, room_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_allocations_requested_at ON allocations(requested_at);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return nil, fmt.Errorf("failed to create postgres schema: %w", err)
		}
	}
	return db, nil
}

// PostgresAllocationRepository implements AllocationRepository using PostgreSQL.
type PostgresAllocationRepository struct {
	db *sql.DB
}

// NewPostgresAllocationRepository creates a new PostgreSQL allocation repository.
func NewPostgresAllocationRepository(db *sql.DB) *PostgresAllocationRepository {
	return &PostgresAllocationRepository{db: db}
}

// Save inserts an allocation and its room layout in one transaction.
func (r *PostgresAllocationRepository) Save(ctx context.Context, rec AllocationRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO allocations (id, requested_at, room_count, adults, seniors, children, feasible)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ID, rec.RequestedAt, rec.RoomCount, rec.Adults, rec.Seniors, rec.Children, rec.Feasible)
	if err != nil {
		return fmt.Errorf("failed to insert allocation: %w", err)
	}

	for _, row := range rec.Rooms {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO allocation_rooms (allocation_id, room_index, adults, seniors, children)
			VALUES ($1, $2, $3, $4, $5)
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

// GetByID retrieves a single allocation with its rooms.
func (r *PostgresAllocationRepository) GetByID(ctx context.Context, id string) (*AllocationRecord, error) {
	var rec AllocationRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT id, requested_at, room_count, adults, seniors, children, feasible
		FROM allocations WHERE id = $1
	`, id).Scan(&rec.ID, &rec.RequestedAt, &rec.RoomCount, &rec.Adults, &rec.Seniors, &rec.Children, &rec.Feasible)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT room_index, adults, seniors, children
		FROM allocation_rooms WHERE allocation_id = $1 ORDER BY room_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row RoomRow
		if err := rows.Scan(&row.RoomIndex, &row.Adults, &row.Seniors, &row.Children); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rec.Rooms = append(rec.Rooms, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List retrieves the most recent allocations, newest first.
func (r *PostgresAllocationRepository) List(ctx context.Context, limit int) ([]AllocationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, requested_at, room_count, adults, seniors, children, feasible
		FROM allocations ORDER BY requested_at DESC LIMIT $1
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
	return recs, rows.Err()
}
