package domain

import "encoding/json"

// Signal types observed in practice. The relay never validates Type:
// payloads pass through opaquely.
const (
	SignalOffer  = "offer"
	SignalAnswer = "answer"
	SignalICE    = "ice"
)

// Signal is one addressed unit of negotiation data, visible only to the
// peer in To. Immutable once queued. Timestamp is server-assigned, unix
// milliseconds, strictly increasing per room.
type Signal struct {
	From      string
	To        string
	Type      string
	Data      json.RawMessage
	Timestamp int64
}
