package ports

import (
	"context"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

// UserRepository defines the persistence surface of the identity store.
// Email uniqueness is enforced here, at the store boundary.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
