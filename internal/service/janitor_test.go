package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwrk-planet/relay-service/internal/domain"
	"github.com/cwrk-planet/relay-service/internal/memstore"
)

// TestJanitorSweep checks that an idle room is removed together with its
// signal queue.
func TestJanitorSweep(t *testing.T) {
	const ttl = 20 * time.Millisecond

	ctx := context.Background()
	roomSvc, signalSvc, roomRepo, signalRepo := newServices(t, memstore.DefaultRetention)

	room, err := roomSvc.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("Couldn't create a room: %+v", err)
	}
	guestID, _, err := roomSvc.JoinRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("Couldn't join the room: %+v", err)
	}
	if _, err := signalSvc.Post(ctx, room.ID, domain.Signal{From: room.HostID, To: guestID, Type: domain.SignalOffer}); err != nil {
		t.Fatalf("Couldn't post a signal: %+v", err)
	}

	time.Sleep(ttl + ttl/2)

	janitor := NewJanitor(roomRepo, signalRepo, ttl, time.Minute)
	janitor.sweep(ctx)

	if _, err := roomRepo.Get(ctx, room.ID); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("Idle room survived the sweep: %+v", err)
	}
	if got := signalSvc.Poll(ctx, room.ID, guestID, 0); len(got) != 0 {
		t.Errorf("Signals survived the sweep: %v", got)
	}
}
