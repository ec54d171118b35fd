package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/venuetrack/checkin-system/internal/core/domain"
)

const collectionVisitEvents = "visit_events"

// VisitEventRepository persists the visit audit trail. Writes happen off
// the request path (via the audit dispatcher), so failures are logged by
// the caller rather than surfaced to clients.
type VisitEventRepository struct {
	col *mongo.Collection
}

func NewVisitEventRepository(db *mongo.Database) *VisitEventRepository {
	return &VisitEventRepository{col: db.Collection(collectionVisitEvents)}
}

type visitEventDoc struct {
	ZoneID    primitive.ObjectID `bson:"zoneid"`
	UserID    primitive.ObjectID `bson:"userid"`
	Direction string             `bson:"direction"`
	At        time.Time          `bson:"at"`
}

func (r *VisitEventRepository) Insert(ctx context.Context, event *domain.VisitEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	zoneID, err := toObjectID(event.ZoneID)
	if err != nil {
		return err
	}
	userID, err := toObjectID(event.UserID)
	if err != nil {
		return err
	}

	_, err = r.col.InsertOne(ctx, visitEventDoc{
		ZoneID:    zoneID,
		UserID:    userID,
		Direction: string(event.Direction),
		At:        event.At,
	})
	if err != nil {
		return fmt.Errorf("insert visit event: %w", err)
	}
	return nil
}
