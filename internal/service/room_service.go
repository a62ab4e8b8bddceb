package service

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/relay-service/internal/domain"
	"github.com/cwrk-planet/relay-service/internal/memstore"
)

type RoomService struct {
	roomRepo   *memstore.RoomRepository
	signalRepo *memstore.SignalRepository
}

func NewRoomService(roomRepo *memstore.RoomRepository, signalRepo *memstore.SignalRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo, signalRepo: signalRepo}
}

// CreateRoom mints a room plus its host identity.
func (s *RoomService) CreateRoom(ctx context.Context) (*domain.Room, error) {
	room, err := s.roomRepo.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("roomRepo.Create: %w", err)
	}
	return room, nil
}

// JoinRoom fills the guest slot and returns the guest's fresh identity
// together with the host's, so the guest can address signals.
func (s *RoomService) JoinRoom(ctx context.Context, roomID string) (guestID, hostID string, err error) {
	return s.roomRepo.SetGuest(ctx, roomID)
}

// DeleteRoom removes the room and cascades to its signal queue.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.signalRepo.DeleteQueue(ctx, id)
	return nil
}

// TouchActivity marks the room as recently used. Best-effort.
func (s *RoomService) TouchActivity(ctx context.Context, roomID string) {
	s.roomRepo.Touch(ctx, roomID)
}
