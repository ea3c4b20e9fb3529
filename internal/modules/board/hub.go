// Package board pushes a change hint to connected dashboards after a
// successful schedule mutation. Clients re-fetch on the hint; no state is
// carried over the socket.
package board

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

// Hub tracks open dashboard connections and broadcasts to all of them.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
}

// Broadcast sends the event to every connection; a write failure drops that
// connection.
func (h *Hub) Broadcast(name string) {
	msg := event{Event: name, At: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(msg); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

// ScheduleChanged satisfies schedule.ChangeNotifier.
func (h *Hub) ScheduleChanged() {
	h.Broadcast("schedule_changed")
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}
