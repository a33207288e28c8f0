package monitor

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/coursework/rtkernel/internal/schedevents"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamHub fans out schedevents.Event to connected WebSocket clients,
// adapted from market.Feed's subscriber-map broadcast shape.
type StreamHub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]chan schedevents.Event
}

func NewStreamHub() *StreamHub {
	return &StreamHub{clients: make(map[uuid.UUID]chan schedevents.Event)}
}

// Broadcast delivers event to every connected client's outgoing channel.
// A client whose channel is full is skipped rather than blocking the
// publisher — this must never back-pressure the scheduler.
func (h *StreamHub) Broadcast(event schedevents.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *StreamHub) register() (uuid.UUID, chan schedevents.Event) {
	id := uuid.New()
	ch := make(chan schedevents.Event, 32)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()

	return id, ch
}

func (h *StreamHub) unregister(id uuid.UUID) {
	h.mu.Lock()
	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

// ServeHTTP upgrades the request to a WebSocket and streams events to it
// until the connection closes.
func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id, ch := h.register()
	defer h.unregister(id)

	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
