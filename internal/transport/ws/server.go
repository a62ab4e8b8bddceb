package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// sendBuf is the per-connection outbound queue depth. A consumer that
// falls further behind starts losing frames instead of slowing anyone
// else down.
const sendBuf = 256

var (
	errConnClosed = errors.New("connection closed")
	errBufferFull = errors.New("send buffer full")
)

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub

	pingEvery time.Duration
}

func NewServer(hub *Hub) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
	}
}

// WS endpoint: GET /ws?roomId=...
//
// The connection joins the room (creating it if absent), every inbound
// chat frame is fanned out verbatim to the other members, and closing the
// socket leaves the room, deleting it when it empties.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		http.Error(w, "missing roomId", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, roomID, uuid.NewString())
	s.hub.Add(c)
	slog.Info("peer connected", "room", roomID, "conn", c.ID())

	s.notify(c, TypeJoin)

	go s.writeLoop(c)
	s.readLoop(c)

	remaining := s.hub.Remove(c)
	if remaining > 0 {
		s.notify(c, TypeLeave)
	}
	slog.Info("peer disconnected", "room", roomID, "conn", c.ID(), "remaining", remaining)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "room", roomID, "conn", c.ID(), "err", err)
	}
}

// notify synthesizes a join/leave frame for everyone else in the room.
// Notifications are always cleartext.
func (s *Server) notify(c *wsConn, typ string) {
	data, err := json.Marshal(Frame{Type: typ, PeerID: c.ID()})
	if err != nil {
		return
	}
	s.hub.Broadcast(c.roomID, c, data)
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		// Validate that the frame parses and carries a type, then relay
		// the original bytes: the payload itself stays opaque.
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Type == "" {
			slog.Debug("dropping malformed frame", "room", c.roomID, "conn", c.ID(), "err", err)
			continue
		}

		s.hub.Broadcast(c.roomID, c, data)
	}
}

// writeLoop is the only goroutine that writes to the socket. It drains
// the outbound queue and keeps the peer alive with pings; a failed write
// means the transport is dead, so the connection is closed and the read
// loop unblocks.
func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("ws write failed", "room", c.roomID, "conn", c.ID(), "err", err)
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-c.closed:
			return
		}
	}
}

type wsConn struct {
	conn   *websocket.Conn
	roomID string
	id     string
	out    chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newWsConn(c *websocket.Conn, roomID, id string) *wsConn {
	return &wsConn{
		conn:   c,
		roomID: roomID,
		id:     id,
		out:    make(chan []byte, sendBuf),
		closed: make(chan struct{}),
	}
}

// Send queues data for the write loop and never blocks: when the peer
// has fallen sendBuf frames behind, the frame is dropped and the error
// reported instead of stalling the caller.
func (c *wsConn) Send(data []byte) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	select {
	case c.out <- data:
		return nil
	default:
		return errBufferFull
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })

	return c.conn.Close()
}

func (c *wsConn) ID() string     { return c.id }
func (c *wsConn) RoomID() string { return c.roomID }
