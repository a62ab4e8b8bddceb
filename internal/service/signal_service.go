package service

import (
	"context"

	"github.com/cwrk-planet/relay-service/internal/domain"
	"github.com/cwrk-planet/relay-service/internal/memstore"
)

type SignalService struct {
	roomRepo   *memstore.RoomRepository
	signalRepo *memstore.SignalRepository
}

func NewSignalService(roomRepo *memstore.RoomRepository, signalRepo *memstore.SignalRepository) *SignalService {
	return &SignalService{roomRepo: roomRepo, signalRepo: signalRepo}
}

// Post queues a signal for its addressee and returns the server-assigned
// timestamp. The payload is opaque: neither Type nor Data is inspected.
func (s *SignalService) Post(ctx context.Context, roomID string, sig domain.Signal) (int64, error) {
	if _, err := s.roomRepo.Get(ctx, roomID); err != nil {
		// An earlier post may have raced a room deletion and left a
		// recreated queue behind; clear it while we're here.
		s.signalRepo.DeleteQueue(ctx, roomID)
		return 0, err
	}

	ts, err := s.signalRepo.Append(ctx, roomID, sig)
	if err != nil {
		return 0, err
	}

	// The room may have been deleted between the existence check and the
	// append, in which case the append just recreated its queue. Re-check
	// and drop the queue so it can't outlive the room: any deletion after
	// this point sees the queue and cascades it itself.
	if _, err := s.roomRepo.Get(ctx, roomID); err != nil {
		s.signalRepo.DeleteQueue(ctx, roomID)
		return 0, err
	}
	s.roomRepo.Touch(ctx, roomID)

	return ts, nil
}

// Poll returns the signals addressed to peerID newer than since, oldest
// first. It never fails: an unknown room or empty queue is an empty
// slice, and the caller is expected to re-poll with the highest timestamp
// it has seen.
func (s *SignalService) Poll(ctx context.Context, roomID, peerID string, since int64) []domain.Signal {
	return s.signalRepo.ListSince(ctx, roomID, peerID, since)
}
