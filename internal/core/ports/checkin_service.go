package ports

import (
	"context"
	"time"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

// RecordVisitInput is the DTO passed from the transport layer to the
// check-in tracker.
type RecordVisitInput struct {
	ZoneID    string
	UserID    string
	Direction domain.VisitDirection
	At        time.Time
}

// CheckinService mutates a zone's temporal state in response to visits.
type CheckinService interface {
	RecordVisit(ctx context.Context, in RecordVisitInput) error
}

// VisitEventRepository persists the visit audit trail.
type VisitEventRepository interface {
	Insert(ctx context.Context, event *domain.VisitEvent) error
}
