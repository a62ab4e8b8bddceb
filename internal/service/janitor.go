package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cwrk-planet/relay-service/internal/memstore"
)

// Janitor bounds the memory held by abandoned signaling rooms. Signal
// entries already expire lazily on write, but a room that stops posting
// would otherwise keep its entry (and queue) forever; the janitor sweeps
// rooms idle longer than ttl and cascades their queues.
type Janitor struct {
	roomRepo   *memstore.RoomRepository
	signalRepo *memstore.SignalRepository

	ttl   time.Duration
	every time.Duration
}

func NewJanitor(roomRepo *memstore.RoomRepository, signalRepo *memstore.SignalRepository, ttl, every time.Duration) *Janitor {
	return &Janitor{
		roomRepo:   roomRepo,
		signalRepo: signalRepo,
		ttl:        ttl,
		every:      every,
	}
}

// Run sweeps until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed := j.roomRepo.DeleteIdle(ctx, time.Now().Add(-j.ttl))
	for _, id := range removed {
		j.signalRepo.DeleteQueue(ctx, id)
	}
	if len(removed) > 0 {
		slog.Debug("swept idle rooms", "count", len(removed))
	}
}
