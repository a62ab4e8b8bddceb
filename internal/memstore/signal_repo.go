package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/cwrk-planet/relay-service/internal/domain"
)

// DefaultRetention is how long an undelivered signal stays visible.
const DefaultRetention = 120 * time.Second

// SignalRepository holds the per-room queues of pending signaling
// messages. Expiry is lazy: each append prunes the queue it touches, and
// reads filter by age so an expired entry is never visible even before
// the next write removes it physically.
type SignalRepository struct {
	retention time.Duration

	mu     sync.RWMutex
	queues map[string]*signalQueue
}

type signalQueue struct {
	mu      sync.Mutex
	lastTS  int64
	entries []domain.Signal
}

func NewSignalRepository(retention time.Duration) *SignalRepository {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SignalRepository{
		retention: retention,
		queues:    make(map[string]*signalQueue),
	}
}

// Append prunes expired entries and appends sig with a server-assigned
// timestamp, returning it. Timestamps are strictly increasing per room.
// Prune and append run under the queue's mutex, so concurrent posts on
// the same room never lose entries.
func (r *SignalRepository) Append(ctx context.Context, roomID string, sig domain.Signal) (int64, error) {
	q := r.queue(roomID)

	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	q.entries = prune(q.entries, now, r.retention)

	ts := now.UnixMilli()
	if ts <= q.lastTS {
		ts = q.lastTS + 1
	}
	q.lastTS = ts

	sig.Timestamp = ts
	q.entries = append(q.entries, sig)

	return ts, nil
}

// ListSince returns the signals addressed to peerID with a timestamp
// after since, oldest first. An unknown room yields an empty slice.
func (r *SignalRepository) ListSince(ctx context.Context, roomID, peerID string, since int64) []domain.Signal {
	r.mu.RLock()
	q := r.queues[roomID]
	r.mu.RUnlock()

	out := []domain.Signal{}
	if q == nil {
		return out
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	oldest := time.Now().Add(-r.retention).UnixMilli()
	for _, s := range q.entries {
		if s.To != peerID || s.Timestamp <= since {
			continue
		}
		if s.Timestamp <= oldest {
			continue
		}
		out = append(out, s)
	}

	return out
}

// QueueCount reports how many rooms currently have a queue.
func (r *SignalRepository) QueueCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.queues)
}

// DeleteQueue drops the room's queue, if any.
func (r *SignalRepository) DeleteQueue(ctx context.Context, roomID string) {
	r.mu.Lock()
	delete(r.queues, roomID)
	r.mu.Unlock()
}

func (r *SignalRepository) queue(roomID string) *signalQueue {
	r.mu.RLock()
	q := r.queues[roomID]
	r.mu.RUnlock()
	if q != nil {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if q = r.queues[roomID]; q == nil {
		q = &signalQueue{}
		r.queues[roomID] = q
	}

	return q
}

// prune keeps only entries still within the retention window. Entries are
// appended in timestamp order, so the first kept index splits the slice.
func prune(entries []domain.Signal, now time.Time, retention time.Duration) []domain.Signal {
	oldest := now.Add(-retention).UnixMilli()
	i := 0
	for ; i < len(entries); i++ {
		if entries[i].Timestamp > oldest {
			break
		}
	}
	if i == 0 {
		return entries
	}

	return append(entries[:0], entries[i:]...)
}
