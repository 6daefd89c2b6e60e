// Package network exposes the room planner over HTTP and WebSocket.
// The API is a thin bridge: decode, delegate to the allocation service,
// encode. No allocation logic belongs here.
package network

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lmoratilla/RoomPlanner/server/internal/allocation"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/party"
	"github.com/lmoratilla/RoomPlanner/server/internal/domain/room"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
)

// API handles the HTTP surface of the planner.
type API struct {
	service  *allocation.Service
	hub      *Hub
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewAPI creates the HTTP/WebSocket bridge. hub may be nil when the server
// runs without the live feed.
func NewAPI(service *allocation.Service, hub *Hub, log *logger.Logger) *API {
	return &API{
		service: service,
		hub:     hub,
		logger:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// AllocateResponse is the JSON body returned by POST /allocate.
type AllocateResponse struct {
	ID       string      `json:"id,omitempty"`
	Feasible bool        `json:"feasible"`
	Rooms    []room.Room `json:"rooms,omitempty"`
}

// HandleAllocate serves POST /allocate.
func (a *API) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req party.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	res, err := a.service.Allocate(r.Context(), req)
	if err != nil {
		a.logger.Warn("allocation request rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := AllocateResponse{ID: res.ID, Feasible: res.Feasible, Rooms: res.Rooms}
	if !res.Feasible {
		// The empty room list is the allocator's verdict, not a server fault.
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleHealth serves GET /healthz.
func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleWS upgrades a connection and subscribes it to allocation broadcasts.
func (a *API) HandleWS(w http.ResponseWriter, r *http.Request) {
	if a.hub == nil {
		http.Error(w, "live feed disabled", http.StatusServiceUnavailable)
		return
	}
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := NewClient(a.hub, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
