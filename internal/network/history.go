// Package network - history.go
// JSON export of past allocations and the audit trail, backed by the
// storage layer and the in-memory event log.
package network

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lmoratilla/RoomPlanner/server/internal/events"
	"github.com/lmoratilla/RoomPlanner/server/internal/infra/storage"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
)

// HistoryHandler serves recent allocation records, single allocations by
// id, and the event log replay.
type HistoryHandler struct {
	allocations storage.AllocationRepository
	eventLog    *events.EventLog
	logger      *logger.Logger
}

// NewHistoryHandler creates a new history handler. eventLog may be nil when
// the server runs without an audit trail.
func NewHistoryHandler(repo storage.AllocationRepository, eventLog *events.EventLog, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		allocations: repo,
		eventLog:    eventLog,
		logger:      log,
	}
}

// HandleHistory serves GET /history?limit=N.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	recs, err := h.allocations.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load allocation history", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []storage.AllocationRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// HandleAllocation serves GET /allocations/{id}.
func (h *HistoryHandler) HandleAllocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/allocations/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "missing allocation id", http.StatusBadRequest)
		return
	}

	rec, err := h.allocations.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load allocation", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		http.Error(w, "allocation not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleEvents serves GET /events?limit=N, replaying the audit trail in
// append order. With a limit only the most recent events are returned.
func (h *HistoryHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.eventLog == nil {
		http.Error(w, "audit trail disabled", http.StatusServiceUnavailable)
		return
	}

	replay := h.eventLog.Replay()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		if n < len(replay) {
			replay = replay[len(replay)-n:]
		}
	}
	writeJSON(w, http.StatusOK, replay)
}
