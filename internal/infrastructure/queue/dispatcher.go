package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/venuetrack/checkin-system/internal/api/metrics"
	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher fans recorded visits out to a fixed set of workers that
// persist the audit trail. Events for the same zone always land on the same
// worker (consistent hashing on the zone identifier), preserving per-zone
// ordering. Persistence failures are logged and never propagate to the
// request that produced the visit.
type AuditDispatcher struct {
	workers []chan domain.VisitEvent
	repo    ports.VisitEventRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.VisitEventRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.VisitEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.VisitEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a visit event to the worker responsible for its zone.
// Non-blocking up to channelBuffer capacity.
func (d *AuditDispatcher) Enqueue(event domain.VisitEvent) {
	i := d.shardIndex(event.ZoneID)
	d.workers[i] <- event
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a zone identifier deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(zoneID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(zoneID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.VisitEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.repo.Insert(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("zone_id", event.ZoneID).
					Int("worker_id", id).
					Msg("visit audit write failed")
			}
		}
	}
}
