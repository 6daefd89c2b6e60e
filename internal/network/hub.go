package network

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lmoratilla/RoomPlanner/server/internal/allocation"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/logger"
	"github.com/lmoratilla/RoomPlanner/server/internal/platform/metrics"
)

const (
	defaultBroadcastBuffer  = 64
	defaultClientSendBuffer = 256
)

// Hub maintains the set of active clients and broadcasts completed
// allocations to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	sendBuffer int
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub. Buffer sizes of zero or less fall
// back to the defaults; clientSendBuffer is applied to every client the hub
// accepts.
func NewHub(log *logger.Logger, broadcastBuffer, clientSendBuffer int) *Hub {
	if broadcastBuffer <= 0 {
		broadcastBuffer = defaultBroadcastBuffer
	}
	if clientSendBuffer <= 0 {
		clientSendBuffer = defaultClientSendBuffer
	}
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sendBuffer: clientSendBuffer,
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("websocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage()
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastResult serializes a completed allocation and sends it to all
// connected clients. Implements allocation.Broadcaster.
func (h *Hub) BroadcastResult(res allocation.Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		h.logger.Error("failed to serialize allocation for broadcast", "error", err)
		metrics.Get().RecordWSError()
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// Hub backlog full; the history endpoint still has the result.
		metrics.Get().RecordWSError()
	}
}
