package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/cwrk-planet/relay-service/internal/domain"
	"github.com/cwrk-planet/relay-service/internal/idgen"
)

// RoomRepository keeps all signaling rooms in process memory. Rooms are
// ephemeral: nothing survives a restart and nothing is shared across
// processes.
//
// The top-level map is guarded by mu for lookup/insert/delete only; every
// mutation of a single room happens under that room's own mutex, so
// operations on different rooms never block each other.
type RoomRepository struct {
	gen *idgen.Generator

	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	mu   sync.Mutex
	room domain.Room
}

func NewRoomRepository(gen *idgen.Generator) *RoomRepository {
	return &RoomRepository{
		gen:   gen,
		rooms: make(map[string]*roomEntry),
	}
}

// Create mints a fresh room with an empty guest slot and returns a copy.
// The storage assigns both the room id and the host's peer id; on the
// improbable id collision it regenerates.
func (r *RoomRepository) Create(ctx context.Context) (*domain.Room, error) {
	hostID, err := r.gen.NewID()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		id, err = r.gen.NewID()
		if err != nil {
			return nil, err
		}
		if _, ok := r.rooms[id]; !ok {
			break
		}
	}

	now := time.Now()
	room := domain.Room{
		ID:         id,
		HostID:     hostID,
		CreatedAt:  now,
		LastActive: now,
	}
	r.rooms[id] = &roomEntry{room: room}

	return &room, nil
}

// Get returns a copy of the room, or ErrRoomNotFound.
func (r *RoomRepository) Get(ctx context.Context, id string) (*domain.Room, error) {
	e := r.entry(id)
	if e == nil {
		return nil, domain.ErrRoomNotFound
	}

	e.mu.Lock()
	room := e.room
	e.mu.Unlock()

	return &room, nil
}

// SetGuest assigns a fresh guest id to the room. The check-and-set runs
// under the room's mutex: of N concurrent calls on the same room exactly
// one succeeds, the rest get ErrRoomFull. The slot never frees up again.
func (r *RoomRepository) SetGuest(ctx context.Context, roomID string) (guestID, hostID string, err error) {
	e := r.entry(roomID)
	if e == nil {
		return "", "", domain.ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.room.GuestID != "" {
		return "", "", domain.ErrRoomFull
	}

	guestID, err = r.gen.NewID()
	if err != nil {
		return "", "", err
	}
	e.room.GuestID = guestID
	e.room.LastActive = time.Now()

	return guestID, e.room.HostID, nil
}

// Touch bumps the room's last-activity marker. Best-effort: unknown rooms
// are ignored.
func (r *RoomRepository) Touch(ctx context.Context, id string) {
	e := r.entry(id)
	if e == nil {
		return
	}

	e.mu.Lock()
	e.room.LastActive = time.Now()
	e.mu.Unlock()
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}
	delete(r.rooms, id)

	return nil
}

// DeleteIdle removes every room whose last activity is before cutoff and
// returns the removed ids, so the caller can cascade per-room state such
// as signal queues.
func (r *RoomRepository) DeleteIdle(ctx context.Context, cutoff time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for id, e := range r.rooms {
		e.mu.Lock()
		idle := e.room.LastActive.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.rooms, id)
			removed = append(removed, id)
		}
	}

	return removed
}

func (r *RoomRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

func (r *RoomRepository) entry(id string) *roomEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rooms[id]
}
