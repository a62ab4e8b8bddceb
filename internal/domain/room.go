package domain

import "time"

type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Room is a signaling room: the host creates it, exactly one guest may
// join, and the guest slot stays occupied for the room's lifetime.
type Room struct {
	ID         string
	HostID     string
	GuestID    string // empty until a guest joins
	CreatedAt  time.Time
	LastActive time.Time
}
