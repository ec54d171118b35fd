package ports

import (
	"context"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

// ZoneInput is a zone as submitted in an update tree. Absent identifiers
// and codes are filled in by the service.
type ZoneInput struct {
	ID            string
	ZoneName      string
	Steps         []string
	QRCode        string
	LastCheckIn   string
	LastCheckOut  string
	TimeSpent     string
	AssignedUsers []string
}

// LocationInput is a location as submitted in an update tree.
type LocationInput struct {
	ID            string
	LocationName  string
	AssignedUsers []string
	Zones         []ZoneInput
}

// ClientTreeInput is the full or partial tree submitted on update. Nil
// Locations or UserRefs keep the stored value; an empty slice clears it.
type ClientTreeInput struct {
	ClientName string
	UserRefs   []string
	Locations  []LocationInput
}

// ClientService owns the client/location/zone containment tree.
type ClientService interface {
	GetAll(ctx context.Context) ([]*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, name string) (*domain.Client, error)
	// ApplyUpdate validates and normalizes the proposed tree (assigning
	// missing identifiers and codes), persists it atomically, and returns
	// the applied tree.
	ApplyUpdate(ctx context.Context, clientID string, tree ClientTreeInput) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// CodeGenerator produces the scanable payload stored on a zone. Generate
// must be deterministic: the decoded content always equals zoneID.
type CodeGenerator interface {
	Generate(zoneID string) (string, error)
}
