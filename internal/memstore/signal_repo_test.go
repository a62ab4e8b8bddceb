package memstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cwrk-planet/relay-service/internal/domain"
)

func postSignal(t *testing.T, repo *SignalRepository, roomID, from, to, typ string) int64 {
	t.Helper()

	ts, err := repo.Append(context.Background(), roomID, domain.Signal{
		From: from,
		To:   to,
		Type: typ,
		Data: json.RawMessage(`{"sdp":"v=0"}`),
	})
	if err != nil {
		t.Fatalf("Couldn't append a signal: %+v", err)
	}

	return ts
}

func TestAppendMonotonicTimestamps(t *testing.T) {
	repo := NewSignalRepository(DefaultRetention)

	var prev int64
	for i := 0; i < 100; i++ {
		ts := postSignal(t, repo, "r1", "h1", "g1", domain.SignalICE)
		if ts <= prev {
			t.Fatalf("Timestamp not strictly increasing: %d after %d", ts, prev)
		}
		prev = ts
	}

	// Monotonicity is per room, not global: a second room may reuse values.
	if got := postSignal(t, repo, "r2", "h2", "g2", domain.SignalOffer); got <= 0 {
		t.Errorf("Invalid timestamp for a second room: %d", got)
	}
}

func TestListSinceFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewSignalRepository(DefaultRetention)

	t1 := postSignal(t, repo, "r1", "h1", "g1", domain.SignalOffer)
	t2 := postSignal(t, repo, "r1", "g1", "h1", domain.SignalAnswer)
	t3 := postSignal(t, repo, "r1", "h1", "g1", domain.SignalICE)

	got := repo.ListSince(ctx, "r1", "g1", 0)
	if want, got := 2, len(got); want != got {
		t.Fatalf("Invalid number of signals: expected '%d' but got '%d'", want, got)
	}
	if got[0].Timestamp != t1 || got[1].Timestamp != t3 {
		t.Errorf("Signals out of order: got timestamps %d, %d (want %d, %d)",
			got[0].Timestamp, got[1].Timestamp, t1, t3)
	}
	for _, s := range got {
		if want, got := "g1", s.To; want != got {
			t.Errorf("Signal for '%s' returned while polling as '%s'", got, want)
		}
	}

	// The watermark excludes everything at or before it.
	got = repo.ListSince(ctx, "r1", "g1", t3)
	if want, got := 0, len(got); want != got {
		t.Errorf("Invalid number of signals past the watermark: expected '%d' but got '%d'", want, got)
	}

	// And polling again with the same watermark stays empty.
	got = repo.ListSince(ctx, "r1", "h1", t2)
	if want, got := 0, len(got); want != got {
		t.Errorf("Poll with an up-to-date watermark not empty: got '%d'", got)
	}

	// An unknown room is an empty result, never an error.
	got = repo.ListSince(ctx, "missing1", "g1", 0)
	if got == nil || len(got) != 0 {
		t.Errorf("Invalid result for an unknown room: %v", got)
	}
}

// TestRetention checks the expiry law from both sides: an expired signal is
// invisible to polls immediately, and the next append drops it physically.
func TestRetention(t *testing.T) {
	const retention = 20 * time.Millisecond

	ctx := context.Background()
	repo := NewSignalRepository(retention)

	postSignal(t, repo, "r1", "h1", "g1", domain.SignalOffer)
	time.Sleep(retention + retention/2)

	if got := repo.ListSince(ctx, "r1", "g1", 0); len(got) != 0 {
		t.Errorf("Expired signal still visible: %v", got)
	}

	ts := postSignal(t, repo, "r1", "h1", "g1", domain.SignalICE)
	got := repo.ListSince(ctx, "r1", "g1", 0)
	if want, got := 1, len(got); want != got {
		t.Fatalf("Invalid number of signals after prune: expected '%d' but got '%d'", want, got)
	}
	if want, got := ts, got[0].Timestamp; want != got {
		t.Errorf("Invalid surviving signal: expected ts '%d' but got '%d'", want, got)
	}
}

func TestDeleteQueue(t *testing.T) {
	ctx := context.Background()
	repo := NewSignalRepository(DefaultRetention)

	postSignal(t, repo, "r1", "h1", "g1", domain.SignalOffer)
	repo.DeleteQueue(ctx, "r1")

	if got := repo.ListSince(ctx, "r1", "g1", 0); len(got) != 0 {
		t.Errorf("Signals survived the queue deletion: %v", got)
	}
}

// TestAppendConcurrent posts from two goroutines and checks that the
// prune-then-append critical section loses nothing and never reuses a
// timestamp.
func TestAppendConcurrent(t *testing.T) {
	const perWorker = 50

	ctx := context.Background()
	repo := NewSignalRepository(DefaultRetention)

	done := make(chan error, 1)
	go func() {
		for i := 0; i < perWorker; i++ {
			if _, err := repo.Append(ctx, "r1", domain.Signal{From: "h1", To: "g1", Type: domain.SignalICE}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	for i := 0; i < perWorker; i++ {
		postSignal(t, repo, "r1", "g1", "g1", domain.SignalICE)
	}
	if err := <-done; err != nil {
		t.Fatalf("Couldn't append concurrently: %+v", err)
	}

	got := repo.ListSince(ctx, "r1", "g1", 0)
	if want, got := 2*perWorker, len(got); want != got {
		t.Fatalf("Lost signals under concurrent posts: expected '%d' but got '%d'", want, got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp <= got[i-1].Timestamp {
			t.Fatalf("Timestamps not strictly increasing: %d then %d",
				got[i-1].Timestamp, got[i].Timestamp)
		}
	}
}
