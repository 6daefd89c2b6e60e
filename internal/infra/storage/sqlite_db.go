package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the necessary
// schemas for persisting allocations, their room layouts and the audit log.
func InitSQLite(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// Create tables
	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS allocations (
			id TEXT PRIMARY KEY,
			requested_at DATETIME NOT NULL,
			room_count INTEGER NOT NULL,
			adults INTEGER NOT NULL,
			seniors INTEGER NOT NULL,
			children INTEGER NOT NULL,
			feasible BOOLEAN NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS allocation_rooms (
			allocation_id TEXT NOT NULL,
			room_index INTEGER NOT NULL,
			adults INTEGER NOT NULL,
			seniors INTEGER NOT NULL,
			children INTEGER NOT NULL,
			PRIMARY KEY (allocation_id, room_index),
			FOREIGN KEY (allocation_id) REFERENCES allocations(id)
		);`,
		`CREATE TABLE IF NOT EXISTS allocation_events (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			room_count INTEGER NOT NULL,
			adults INTEGER NOT NULL,
			seniors INTEGER NOT NULL,
			children INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_allocations_requested_at ON allocations(requested_at);`,
		`CREATE INDEX IF NOT EXISTS idx_allocation_events_timestamp ON allocation_events(timestamp);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
