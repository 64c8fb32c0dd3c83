package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ahofmann/scriptroom/internal/jobs"
)

// JobEvent is pushed to websocket subscribers on every status change.
type JobEvent struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// Hub tracks websocket subscribers and broadcasts job status changes.
type Hub struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	mu       sync.Mutex
	logger   *slog.Logger
}

// NewHub creates a websocket hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

func (h *Hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.addClient(conn)
}

func (h *Hub) addClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected", "clients", count)

	// Drain the read side until the client goes away.
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			count := len(h.clients)
			h.mu.Unlock()
			conn.Close()
			h.logger.Info("websocket client disconnected", "clients", count)
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// NotifyJob broadcasts a job status change to all subscribers.
func (h *Hub) NotifyJob(id string, status jobs.Status) {
	event := JobEvent{RequestID: id, Status: string(status)}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Warn("failed to send job event", "error", err)
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
}
