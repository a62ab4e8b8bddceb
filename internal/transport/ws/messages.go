package ws

// Frame types carried over the relay socket.
const (
	TypeMsg   = "msg"   // chat payload, relayed verbatim
	TypeJoin  = "join"  // synthesized: a peer entered the room
	TypeLeave = "leave" // synthesized: a peer left the room
)

// Frame is the wire shape of a relay message. For inbound chat frames the
// server only checks that the frame parses and has a type; Text and
// Encrypted stay opaque and the original bytes are forwarded untouched,
// so any end-to-end encryption is purely a property of the endpoints.
type Frame struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Encrypted bool   `json:"encrypted,omitempty"`

	// PeerID identifies the subject of a join/leave notification.
	PeerID string `json:"peerId,omitempty"`
}
