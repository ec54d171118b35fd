package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

type userService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

// NewUserService returns a UserService backed by the identity store.
func NewUserService(repo ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *userService) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	for _, id := range ids {
		if !domain.IsValidID(id) {
			return nil, fmt.Errorf("user id %q: %w", id, domain.ErrInvalidID)
		}
	}
	return s.repo.FindByIDs(ctx, ids)
}

// Create hashes the raw password and persists the user. The hash never
// leaves the service.
func (s *userService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Role:              in.Role,
		Email:             in.Email,
		PasswordHash:      string(hash),
		AssignedLocations: in.AssignedLocations,
		AssignedZones:     in.AssignedZones,
		ClientID:          in.ClientID,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("email", in.Email).Msg("failed to create user")
		return nil, err
	}
	return created, nil
}

// Update merges the submitted fields over the stored user and writes the
// result back. Empty strings and nil lists keep their stored values, so a
// partial PUT never wipes a field (and the role can never leave the closed
// set by omission).
func (s *userService) Update(ctx context.Context, id string, in ports.UpdateUserInput) error {
	if !domain.IsValidID(id) {
		return domain.ErrInvalidID
	}
	if in.Role != "" && !domain.ValidRole(in.Role) {
		return domain.ErrInvalidRole
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	next := *existing
	if in.FirstName != "" {
		next.FirstName = in.FirstName
	}
	if in.LastName != "" {
		next.LastName = in.LastName
	}
	if in.Role != "" {
		next.Role = in.Role
	}
	if in.Email != "" {
		next.Email = in.Email
	}
	if in.AssignedLocations != nil {
		next.AssignedLocations = in.AssignedLocations
	}
	if in.AssignedZones != nil {
		next.AssignedZones = in.AssignedZones
	}

	return s.repo.Update(ctx, id, &next)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if !domain.IsValidID(id) {
		return domain.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
