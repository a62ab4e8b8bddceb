package ws

import (
	"log/slog"
	"sync"
)

// Conn is one live room member. Send must not block: implementations
// queue the payload for their own writer and report an error when they
// can't, so the hub may call it while holding its lock.
type Conn interface {
	Send(data []byte) error
	Close() error
	ID() string
	RoomID() string
}

// Hub owns the live connection sets of all relay rooms. A room exists
// exactly as long as it has members: Add creates it implicitly and Remove
// deletes it once the set empties. The hub never retains a message.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{} // roomID -> set of connections
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[Conn]struct{})}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[c.RoomID()]
	if !ok {
		rs = make(map[Conn]struct{})
		h.rooms[c.RoomID()] = rs
	}
	rs[c] = struct{}{}
}

// Remove drops the connection and reports how many members remain, so the
// caller knows whether a leave notification has an audience.
func (h *Hub) Remove(c Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[c.RoomID()]
	if !ok {
		return 0
	}
	delete(rs, c)
	if len(rs) == 0 {
		delete(h.rooms, c.RoomID())
		return 0
	}

	return len(rs)
}

// Broadcast queues data for every member of the room except the given
// connection. Delivery is best-effort per recipient: a dead peer or a
// consumer with a full send buffer loses the frame, and failures never
// reach the sender.
func (h *Hub) Broadcast(roomID string, except Conn, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		if c == except {
			continue
		}
		if err := c.Send(data); err != nil {
			slog.Debug("relay send failed", "room", roomID, "conn", c.ID(), "err", err)
		}
	}
}

func (h *Hub) Count(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[roomID])
}
