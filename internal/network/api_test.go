package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoratilla/RoomPlanner/server/internal/allocation"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/party"
	"github.com/lmoratilla/RoomPlanner/server/internal/events"
	"github.com/lmoratilla/RoomPlanner/server/internal/infra/storage"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
)

func newTestAPI() *API {
	svc := allocation.NewService(4, events.NewEventLog(nil), nil, nil, nil, logger.NewNop())
	return NewAPI(svc, nil, logger.NewNop())
}

func postAllocate(t *testing.T, api *API, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/allocate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.HandleAllocate(rec, req)
	return rec
}

func TestHandleAllocateFeasible(t *testing.T) {
	rec := postAllocate(t, newTestAPI(), `{"room_count":2,"adults":2,"seniors":2,"children":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AllocateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Feasible)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, 2, resp.Rooms[0].Adults)
	assert.Equal(t, 2, resp.Rooms[1].Seniors)
}

func TestHandleAllocateInfeasible(t *testing.T) {
	rec := postAllocate(t, newTestAPI(), `{"room_count":1,"children":2}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp AllocateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Feasible)
	assert.Empty(t, resp.Rooms)
}

func TestHandleAllocateBadRequests(t *testing.T) {
	api := newTestAPI()

	rec := postAllocate(t, api, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAllocate(t, api, `{"room_count":1,"adults":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/allocate", nil)
	getRec := httptest.NewRecorder()
	api.HandleAllocate(getRec, getReq)
	assert.Equal(t, http.StatusMethodNotAllowed, getRec.Code)
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestAPI().HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type stubAllocationRepo struct {
	recs []storage.AllocationRecord
	err  error
}

func (s *stubAllocationRepo) Save(context.Context, storage.AllocationRecord) error {
	return nil
}

func (s *stubAllocationRepo) GetByID(_ context.Context, id string) (*storage.AllocationRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.recs {
		if s.recs[i].ID == id {
			return &s.recs[i], nil
		}
	}
	return nil, nil
}

func (s *stubAllocationRepo) List(_ context.Context, limit int) ([]storage.AllocationRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.recs) {
		return s.recs[:limit], nil
	}
	return s.recs, nil
}

func TestHandleHistory(t *testing.T) {
	repo := &stubAllocationRepo{recs: []storage.AllocationRecord{
		{ID: "A2", RoomCount: 2, Feasible: true},
		{ID: "A1", RoomCount: 1, Feasible: false},
	}}
	h := NewHistoryHandler(repo, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []storage.AllocationRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "A2", got[0].ID)

	limited := httptest.NewRecorder()
	h.HandleHistory(limited, httptest.NewRequest(http.MethodGet, "/history?limit=1", nil))
	var one []storage.AllocationRecord
	require.NoError(t, json.NewDecoder(limited.Body).Decode(&one))
	assert.Len(t, one, 1)

	bad := httptest.NewRecorder()
	h.HandleHistory(bad, httptest.NewRequest(http.MethodGet, "/history?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHandleAllocationByID(t *testing.T) {
	repo := &stubAllocationRepo{recs: []storage.AllocationRecord{
		{ID: "A1", RoomCount: 2, Feasible: true, Rooms: []storage.RoomRow{
			{RoomIndex: 0, Adults: 2, Children: 1},
			{RoomIndex: 1, Seniors: 2},
		}},
	}}
	h := NewHistoryHandler(repo, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleAllocation(rec, httptest.NewRequest(http.MethodGet, "/allocations/A1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got storage.AllocationRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "A1", got.ID)
	assert.Len(t, got.Rooms, 2)

	missing := httptest.NewRecorder()
	h.HandleAllocation(missing, httptest.NewRequest(http.MethodGet, "/allocations/NOPE", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)

	bare := httptest.NewRecorder()
	h.HandleAllocation(bare, httptest.NewRequest(http.MethodGet, "/allocations/", nil))
	assert.Equal(t, http.StatusBadRequest, bare.Code)
}

func TestHandleEvents(t *testing.T) {
	eventLog := events.NewEventLog(nil)
	svc := allocation.NewService(4, eventLog, nil, nil, nil, logger.NewNop())
	_, err := svc.Allocate(context.Background(), party.Request{RoomCount: 1, Adults: 2})
	require.NoError(t, err)

	h := NewHistoryHandler(&stubAllocationRepo{}, eventLog, logger.NewNop())

	rec := httptest.NewRecorder()
	h.HandleEvents(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []events.AllocationEvent
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, events.EventTypeAllocationRequested, got[0].Type)
	assert.Equal(t, events.EventTypeAllocationCompleted, got[1].Type)

	limited := httptest.NewRecorder()
	h.HandleEvents(limited, httptest.NewRequest(http.MethodGet, "/events?limit=1", nil))
	var last []events.AllocationEvent
	require.NoError(t, json.NewDecoder(limited.Body).Decode(&last))
	require.Len(t, last, 1)
	assert.Equal(t, events.EventTypeAllocationCompleted, last[0].Type)

	disabled := NewHistoryHandler(&stubAllocationRepo{}, nil, logger.NewNop())
	off := httptest.NewRecorder()
	disabled.HandleEvents(off, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, off.Code)
}
