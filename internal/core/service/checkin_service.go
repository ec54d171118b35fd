package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuetrack/checkin-system/internal/api/metrics"
	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

// VisitDedup abstracts the idempotency store (Redis).
type VisitDedup interface {
	IsDuplicate(ctx context.Context, zoneID string, direction domain.VisitDirection, at time.Time) (bool, error)
	Mark(ctx context.Context, zoneID string, direction domain.VisitDirection, at time.Time) error
}

// AuditSink receives recorded visits for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.VisitEvent)
}

type checkinService struct {
	clients ports.ClientRepository
	dedup   VisitDedup
	audit   AuditSink
	log     zerolog.Logger
}

// NewCheckinService returns a CheckinService implementation.
func NewCheckinService(clients ports.ClientRepository, dedup VisitDedup, audit AuditSink, log zerolog.Logger) ports.CheckinService {
	return &checkinService{clients: clients, dedup: dedup, audit: audit, log: log}
}

// RecordVisit applies a check-in or check-out to the zone's temporal state.
// Re-applying an identical (zone, direction, at) triple is a no-op success.
func (s *checkinService) RecordVisit(ctx context.Context, in ports.RecordVisitInput) error {
	if in.Direction != domain.VisitIn && in.Direction != domain.VisitOut {
		return domain.ErrInvalidDirection
	}
	if !domain.IsValidID(in.ZoneID) || !domain.IsValidID(in.UserID) {
		return domain.ErrInvalidID
	}

	// 1. Idempotency check. A replayed visit would overwrite the fields
	// with identical values, so skip it outright.
	isDup, err := s.dedup.IsDuplicate(ctx, in.ZoneID, in.Direction, in.At)
	if err != nil {
		s.log.Warn().Err(err).Str("zone_id", in.ZoneID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.VisitsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("zone_id", in.ZoneID).Str("direction", string(in.Direction)).Msg("duplicate visit skipped")
		return nil
	}
	metrics.VisitsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Locate the zone within whichever client tree contains it.
	client, err := s.clients.FindByZoneID(ctx, in.ZoneID)
	if err != nil {
		metrics.VisitsErrorsTotal.WithLabelValues("zone_not_found").Inc()
		return fmt.Errorf("record visit: %w", err)
	}
	zone := client.FindZone(in.ZoneID)
	if zone == nil {
		metrics.VisitsErrorsTotal.WithLabelValues("zone_not_found").Inc()
		return fmt.Errorf("record visit: %w", domain.ErrZoneNotFound)
	}

	// 3. Compute the new temporal fields.
	at := in.At.UTC().Format(time.RFC3339)
	var update ports.ZoneVisitUpdate
	switch in.Direction {
	case domain.VisitIn:
		update.LastCheckIn = &at
	case domain.VisitOut:
		spent := timeSpent(zone.LastCheckIn, in.At)
		update.LastCheckOut = &at
		update.TimeSpent = &spent
	}

	if err := s.clients.UpdateZoneVisit(ctx, in.ZoneID, update); err != nil {
		metrics.VisitsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("record visit: %w", err)
	}

	// 4. Mark as processed so retries of the same visit are skipped.
	if markErr := s.dedup.Mark(ctx, in.ZoneID, in.Direction, in.At); markErr != nil {
		s.log.Warn().Err(markErr).Str("zone_id", in.ZoneID).Msg("failed to set dedup key")
	}

	// 5. Hand the event to the audit trail (persisted off the request path).
	s.audit.Enqueue(domain.VisitEvent{
		ZoneID:    in.ZoneID,
		UserID:    in.UserID,
		Direction: in.Direction,
		At:        in.At.UTC(),
	})

	metrics.VisitsRecordedTotal.WithLabelValues(string(in.Direction)).Inc()
	s.log.Info().
		Str("zone_id", in.ZoneID).
		Str("user_id", in.UserID).
		Str("direction", string(in.Direction)).
		Msg("visit recorded")

	return nil
}

// timeSpent derives the duration between the stored check-in and the
// check-out instant, floored at zero when the check-in is absent,
// unparsable, or later than the check-out.
func timeSpent(lastCheckIn string, out time.Time) string {
	in, err := time.Parse(time.RFC3339, lastCheckIn)
	if err != nil {
		return time.Duration(0).String()
	}
	d := out.Sub(in)
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second).String()
}
