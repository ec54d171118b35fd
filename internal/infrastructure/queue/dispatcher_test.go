package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

type recordingVisitRepo struct {
	mu     sync.Mutex
	events []domain.VisitEvent
	done   chan struct{}
	fail   bool
}

func newRecordingVisitRepo() *recordingVisitRepo {
	return &recordingVisitRepo{done: make(chan struct{}, 64)}
}

func (r *recordingVisitRepo) Insert(_ context.Context, event *domain.VisitEvent) error {
	r.mu.Lock()
	r.events = append(r.events, *event)
	r.mu.Unlock()
	r.done <- struct{}{}
	if r.fail {
		return errors.New("insert failed")
	}
	return nil
}

func (r *recordingVisitRepo) waitFor(t *testing.T, n int) []domain.VisitEvent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-timeout:
			t.Fatalf("timed out waiting for %d audit writes", n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.VisitEvent(nil), r.events...)
}

func TestAuditDispatcher_PersistsEvents(t *testing.T) {
	repo := newRecordingVisitRepo()
	d := NewAuditDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	zoneA := "65f2a1b3c4d5e6f708192a3b"
	zoneB := "65f2a1b3c4d5e6f708192a3c"
	for i := 0; i < 3; i++ {
		d.Enqueue(domain.VisitEvent{ZoneID: zoneA, Direction: domain.VisitIn, At: time.Now().Add(time.Duration(i) * time.Second)})
		d.Enqueue(domain.VisitEvent{ZoneID: zoneB, Direction: domain.VisitOut})
	}

	events := repo.waitFor(t, 6)

	// Events for the same zone must arrive in enqueue order.
	var timesA []time.Time
	for _, e := range events {
		if e.ZoneID == zoneA {
			timesA = append(timesA, e.At)
		}
	}
	if len(timesA) != 3 {
		t.Fatalf("zone A events = %d, want 3", len(timesA))
	}
	for i := 1; i < len(timesA); i++ {
		if timesA[i].Before(timesA[i-1]) {
			t.Fatalf("zone A events out of order: %v", timesA)
		}
	}
}

func TestAuditDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewAuditDispatcher(4, newRecordingVisitRepo(), zerolog.Nop())

	zoneID := "65f2a1b3c4d5e6f708192a3b"
	first := d.shardIndex(zoneID)
	for i := 0; i < 100; i++ {
		if got := d.shardIndex(zoneID); got != first {
			t.Fatalf("shard index changed: %d then %d", first, got)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestAuditDispatcher_SurvivesInsertFailure(t *testing.T) {
	repo := newRecordingVisitRepo()
	repo.fail = true
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.VisitEvent{ZoneID: "65f2a1b3c4d5e6f708192a3b", Direction: domain.VisitIn})
	d.Enqueue(domain.VisitEvent{ZoneID: "65f2a1b3c4d5e6f708192a3b", Direction: domain.VisitOut})

	// Both events reach the repo even though every insert errors.
	if events := repo.waitFor(t, 2); len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestAuditDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewAuditDispatcher(0, newRecordingVisitRepo(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("worker count = %d, want %d", len(d.workers), defaultWorkers)
	}
}
