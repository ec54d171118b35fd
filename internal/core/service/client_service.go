package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuetrack/checkin-system/internal/api/metrics"
	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

// ClientService owns the client/location/zone tree. Updates rebuild a new
// validated tree from the proposed input and persist it as one atomic
// replace; nothing is written when validation fails.
type ClientService struct {
	repo    ports.ClientRepository
	codeGen ports.CodeGenerator
	logger  zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, codeGen ports.CodeGenerator, logger zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, codeGen: codeGen, logger: logger}
}

func (s *ClientService) GetAll(ctx context.Context) ([]*domain.Client, error) {
	return s.repo.GetAll(ctx)
}

func (s *ClientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

// Create makes a new client with no locations and no member references.
func (s *ClientService) Create(ctx context.Context, name string) (*domain.Client, error) {
	client := &domain.Client{
		ClientName: name,
		Locations:  []domain.Location{},
		UserRefs:   []string{},
	}

	created, err := s.repo.Create(ctx, client)
	if err != nil {
		s.logger.Error().Err(err).Str("clientname", name).Msg("failed to create client")
		return nil, err
	}

	metrics.ClientsCreatedTotal.Inc()
	s.logger.Info().Str("client_id", created.ID).Str("clientname", name).Msg("client created")
	return created, nil
}

// ApplyUpdate normalizes the proposed tree and persists it. Every location
// or zone lacking an identifier receives a fresh one; zones lacking a code
// get one synthesized from their identifier (after assignment, since the
// code encodes the identifier). Identifiers already present are never
// reassigned and codes already present are never regenerated.
func (s *ClientService) ApplyUpdate(ctx context.Context, clientID string, tree ports.ClientTreeInput) (*domain.Client, error) {
	if !domain.IsValidID(clientID) {
		return nil, domain.ErrInvalidID
	}

	existing, err := s.repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	next := &domain.Client{
		ID:         clientID,
		ClientName: existing.ClientName,
		Locations:  existing.Locations,
		UserRefs:   existing.UserRefs,
	}
	if tree.ClientName != "" {
		next.ClientName = tree.ClientName
	}
	if tree.UserRefs != nil {
		refs, err := normalizeRefs(tree.UserRefs)
		if err != nil {
			return nil, err
		}
		next.UserRefs = refs
	}
	if tree.Locations != nil {
		locations, err := s.normalizeLocations(tree.Locations)
		if err != nil {
			return nil, err
		}
		next.Locations = locations
	}

	if err := s.repo.Replace(ctx, clientID, next); err != nil {
		s.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to persist client tree")
		return nil, err
	}

	s.logger.Info().
		Str("client_id", clientID).
		Int("locations", len(next.Locations)).
		Msg("client tree updated")

	return next, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if !domain.IsValidID(id) {
		return domain.ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// normalizeLocations walks the proposed locations and produces a new
// validated slice, assigning identifiers and codes where missing. Location
// identifiers must not repeat within the client and zone identifiers must
// not repeat anywhere in the tree; the zone check spans locations because
// visit updates address zones by identifier alone.
func (s *ClientService) normalizeLocations(in []ports.LocationInput) ([]domain.Location, error) {
	locations := make([]domain.Location, 0, len(in))
	seenLocations := make(map[string]struct{}, len(in))
	seenZones := make(map[string]struct{})
	for _, li := range in {
		loc := domain.Location{
			ID:           li.ID,
			LocationName: li.LocationName,
			Zones:        []domain.Zone{},
		}
		if loc.ID == "" {
			loc.ID = newID()
		} else if !domain.IsValidID(loc.ID) {
			return nil, fmt.Errorf("location %q: %w", li.LocationName, domain.ErrInvalidID)
		}
		if _, dup := seenLocations[loc.ID]; dup {
			return nil, fmt.Errorf("duplicate location id %s: %w", loc.ID, domain.ErrInvalidID)
		}
		seenLocations[loc.ID] = struct{}{}

		users, err := normalizeRefs(li.AssignedUsers)
		if err != nil {
			return nil, err
		}
		loc.AssignedUsers = users

		for _, zi := range li.Zones {
			zone, err := s.normalizeZone(zi)
			if err != nil {
				return nil, err
			}
			if _, dup := seenZones[zone.ID]; dup {
				return nil, fmt.Errorf("duplicate zone id %s: %w", zone.ID, domain.ErrInvalidID)
			}
			seenZones[zone.ID] = struct{}{}
			loc.Zones = append(loc.Zones, zone)
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

func (s *ClientService) normalizeZone(in ports.ZoneInput) (domain.Zone, error) {
	zone := domain.Zone{
		ID:           in.ID,
		ZoneName:     in.ZoneName,
		Steps:        in.Steps,
		QRCode:       in.QRCode,
		LastCheckIn:  in.LastCheckIn,
		LastCheckOut: in.LastCheckOut,
		TimeSpent:    in.TimeSpent,
	}
	if zone.Steps == nil {
		zone.Steps = []string{}
	}
	if zone.ID == "" {
		zone.ID = newID()
	} else if !domain.IsValidID(zone.ID) {
		return domain.Zone{}, fmt.Errorf("zone %q: %w", in.ZoneName, domain.ErrInvalidID)
	}

	users, err := normalizeRefs(in.AssignedUsers)
	if err != nil {
		return domain.Zone{}, err
	}
	zone.AssignedUsers = users

	// The code is derived from the identifier, so generation must follow
	// identifier assignment. An existing code is kept verbatim.
	if zone.QRCode == "" {
		code, err := s.codeGen.Generate(zone.ID)
		if err != nil {
			return domain.Zone{}, fmt.Errorf("generate code for zone %s: %w", zone.ID, err)
		}
		zone.QRCode = code
		metrics.CodesGeneratedTotal.Inc()
	}

	return zone, nil
}

// normalizeRefs validates a list of opaque user identifier strings.
func normalizeRefs(refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !domain.IsValidID(ref) {
			return nil, fmt.Errorf("user reference %q: %w", ref, domain.ErrInvalidID)
		}
		out = append(out, ref)
	}
	return out, nil
}

// newID returns a fresh 24-character hex identifier for a nested node.
func newID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// fallback: derive from current nanoseconds
		return fmt.Sprintf("%024x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
