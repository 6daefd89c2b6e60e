package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAllocationRepository(db)
	rec := sampleRecord("A1", time.Now().UTC())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO allocations").
		WithArgs(rec.ID, rec.RequestedAt, rec.RoomCount, rec.Adults, rec.Seniors, rec.Children, rec.Feasible).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO allocation_rooms").
		WithArgs(rec.ID, 0, 2, 0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO allocation_rooms").
		WithArgs(rec.ID, 1, 0, 2, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAllocationRepository(db)
	at := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM allocations WHERE id").
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requested_at", "room_count", "adults", "seniors", "children", "feasible"}).
			AddRow("A1", at, 2, 2, 2, 1, true))
	mock.ExpectQuery("SELECT (.+) FROM allocation_rooms").
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"room_index", "adults", "seniors", "children"}).
			AddRow(0, 2, 0, 1).
			AddRow(1, 0, 2, 0))

	got, err := repo.GetByID(context.Background(), "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A1", got.ID)
	assert.Len(t, got.Rooms, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresAllocationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM allocations WHERE id").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "requested_at", "room_count", "adults", "seniors", "children", "feasible"}))

	got, err := repo.GetByID(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
