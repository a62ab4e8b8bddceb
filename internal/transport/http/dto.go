package http

import (
	"encoding/json"

	"github.com/cwrk-planet/relay-service/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateRoomResponse struct {
	RoomID string      `json:"roomId"`
	PeerID string      `json:"peerId"`
	Role   domain.Role `json:"role"`
}

type JoinRoomResponse struct {
	RoomID string      `json:"roomId"`
	PeerID string      `json:"peerId"`
	Role   domain.Role `json:"role"`
	HostID string      `json:"hostId"`
}

type PostSignalRequest struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type PostSignalResponse struct {
	Success   bool  `json:"success"`
	Timestamp int64 `json:"timestamp"`
}

type SignalItem struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type PollSignalsResponse struct {
	Signals []SignalItem `json:"signals"`
}
