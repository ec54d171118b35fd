package ports

import (
	"context"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

// ZoneVisitUpdate carries the temporal fields to set on a zone. Nil fields
// are left untouched.
type ZoneVisitUpdate struct {
	LastCheckIn  *string
	LastCheckOut *string
	TimeSpent    *string
}

// ClientRepository defines persistence operations over client documents.
// Replace must swap the whole tree in a single atomic operation so that
// concurrent updates to the same client never interleave partial writes.
type ClientRepository interface {
	GetAll(ctx context.Context) ([]*domain.Client, error)
	// GetByID reads a single client through the store's aggregation
	// pipeline rather than a raw fetch.
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Replace(ctx context.Context, id string, c *domain.Client) error
	Delete(ctx context.Context, id string) error
	// FindByZoneID returns the client whose tree contains the given zone.
	FindByZoneID(ctx context.Context, zoneID string) (*domain.Client, error)
	// UpdateZoneVisit sets a zone's temporal fields in place.
	UpdateZoneVisit(ctx context.Context, zoneID string, update ZoneVisitUpdate) error
}
