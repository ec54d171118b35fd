package ports

import (
	"context"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

// CreateUserInput carries the fields accepted when creating a user through
// the user management surface. Password is hashed at the service boundary.
type CreateUserInput struct {
	FirstName         string
	LastName          string
	Role              string
	Email             string
	Password          string
	AssignedLocations []string
	AssignedZones     []string
	ClientID          string
}

// UpdateUserInput carries the mutable user fields.
type UpdateUserInput struct {
	FirstName         string
	LastName          string
	Role              string
	Email             string
	AssignedLocations []string
	AssignedZones     []string
}

// UserService exposes identity store operations to the transport layer.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) error
	Delete(ctx context.Context, id string) error
}
