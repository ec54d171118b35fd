package ports

import (
	"context"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Password is
// the raw secret; it is hashed before persistence and never stored or
// logged as-is.
type RegisterInput struct {
	FirstName         string
	LastName          string
	Role              string
	Email             string
	Password          string
	AssignedLocations []string
	AssignedZones     []string
	ClientID          string
}

// AuthService issues and verifies bearer tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	TokenVerifier
}

// TokenVerifier checks a presented token and extracts its claims.
// Expired and malformed tokens are reported distinctly
// (domain.ErrTokenExpired vs domain.ErrTokenInvalid).
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
