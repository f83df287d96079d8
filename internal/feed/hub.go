package feed

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"eventsort/pkg/models"
)

// Hub fans newly saved events out to connected review clients so the
// swipe deck refreshes without polling.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

type eventSavedMsg struct {
	Type  string             `json:"type"`
	Event models.EventRecord `json:"event"`
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastEvent pushes one saved event to every client. Raw message text
// stays out of the feed; clients fetch it explicitly if they want it.
func (h *Hub) BroadcastEvent(rec models.EventRecord) {
	rec.RawMessage = ""
	b, err := json.Marshal(eventSavedMsg{Type: "event_saved", Event: rec})
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.clients {
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}
