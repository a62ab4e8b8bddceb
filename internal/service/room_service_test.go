package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwrk-planet/relay-service/internal/domain"
	"github.com/cwrk-planet/relay-service/internal/idgen"
	"github.com/cwrk-planet/relay-service/internal/memstore"
)

func newServices(t *testing.T, retention time.Duration) (*RoomService, *SignalService, *memstore.RoomRepository, *memstore.SignalRepository) {
	t.Helper()

	gen, err := idgen.New(idgen.DefaultSize)
	if err != nil {
		t.Fatalf("Couldn't create the id generator: %+v", err)
	}
	roomRepo := memstore.NewRoomRepository(gen)
	signalRepo := memstore.NewSignalRepository(retention)

	return NewRoomService(roomRepo, signalRepo), NewSignalService(roomRepo, signalRepo), roomRepo, signalRepo
}

// TestRoomLifecycle runs the create/join/join-again flow end to end.
func TestRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	roomSvc, _, _, _ := newServices(t, memstore.DefaultRetention)

	room, err := roomSvc.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("Couldn't create a room: %+v", err)
	}

	guestID, hostID, err := roomSvc.JoinRoom(ctx, room.ID)
	if err != nil {
		t.Fatalf("Couldn't join the room: %+v", err)
	}
	if want, got := room.HostID, hostID; want != got {
		t.Errorf("Invalid host id: expected '%s' but got '%s'", want, got)
	}
	if guestID == "" {
		t.Error("Join returned an empty guest id")
	}

	if _, _, err := roomSvc.JoinRoom(ctx, room.ID); !errors.Is(err, domain.ErrRoomFull) {
		t.Errorf("Invalid error joining a full room: expected '%+v' but got '%+v'", domain.ErrRoomFull, err)
	}
	if _, _, err := roomSvc.JoinRoom(ctx, "missing1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Errorf("Invalid error joining an unknown room: expected '%+v' but got '%+v'", domain.ErrRoomNotFound, err)
	}
}

// TestDeleteRoomCascades checks that deleting a room drops its queue too.
func TestDeleteRoomCascades(t *testing.T) {
	ctx := context.Background()
	roomSvc, signalSvc, _, _ := newServices(t, memstore.DefaultRetention)

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

	if err := roomSvc.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("Couldn't delete the room: %+v", err)
	}
	if got := signalSvc.Poll(ctx, room.ID, guestID, 0); len(got) != 0 {
		t.Errorf("Signals survived the room deletion: %v", got)
	}
}
