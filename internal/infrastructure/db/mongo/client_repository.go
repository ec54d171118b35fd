package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/venuetrack/checkin-system/internal/core/domain"
	"github.com/venuetrack/checkin-system/internal/core/ports"
)

const collectionClients = "clients"

// ClientRepository persists client trees as single documents. All user
// references and embedded node identifiers are stored as ObjectIDs; the
// domain layer works with their 24-hex string form.
type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type zoneDoc struct {
	ID            primitive.ObjectID   `bson:"_id"`
	ZoneName      string               `bson:"zonename"`
	Steps         []string             `bson:"steps"`
	QRCode        string               `bson:"qrcode"`
	LastCheckIn   string               `bson:"lastcheckin"`
	LastCheckOut  string               `bson:"lastcheckout"`
	TimeSpent     string               `bson:"timespent"`
	AssignedUsers []primitive.ObjectID `bson:"assignedusers"`
}

type locationDoc struct {
	ID            primitive.ObjectID   `bson:"_id"`
	LocationName  string               `bson:"locationname"`
	AssignedUsers []primitive.ObjectID `bson:"assignedusers"`
	Zones         []zoneDoc            `bson:"zone"`
}

type clientDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	ClientName string               `bson:"clientname"`
	Locations  []locationDoc        `bson:"location"`
	UserRefs   []primitive.ObjectID `bson:"userRefs"`
}

func (r *ClientRepository) GetAll(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	defer cursor.Close(ctx)

	clients := []*domain.Client{}
	for cursor.Next(ctx) {
		var doc clientDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode client: %w", err)
		}
		clients = append(clients, docToClient(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

// GetByID reads a single client through an aggregation pipeline so future
// read models can project the tree without changing the call site.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate client: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("aggregate client: %w", err)
		}
		return nil, domain.ErrClientNotFound
	}

	var doc clientDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode client: %w", err)
	}
	return docToClient(&doc), nil
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := clientToDoc(c)
	if err != nil {
		return nil, err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}

	created := *c
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Replace swaps the stored tree for the given one in a single atomic
// document replace.
func (r *ClientRepository) Replace(ctx context.Context, id string, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(id)
	if err != nil {
		return err
	}
	doc, err := clientToDoc(c)
	if err != nil {
		return err
	}
	doc.ID = oid

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("replace client: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// FindByZoneID returns the client whose embedded tree contains the zone.
func (r *ClientRepository) FindByZoneID(ctx context.Context, zoneID string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(zoneID)
	if err != nil {
		return nil, err
	}

	var doc clientDoc
	if err := r.col.FindOne(ctx, bson.M{"location.zone._id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrZoneNotFound
		}
		return nil, fmt.Errorf("find client by zone: %w", err)
	}
	return docToClient(&doc), nil
}

// UpdateZoneVisit sets the zone's temporal fields in place using a
// filtered positional update, one atomic write per visit.
func (r *ClientRepository) UpdateZoneVisit(ctx context.Context, zoneID string, update ports.ZoneVisitUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(zoneID)
	if err != nil {
		return err
	}

	set := bson.M{}
	if update.LastCheckIn != nil {
		set["location.$[].zone.$[z].lastcheckin"] = *update.LastCheckIn
	}
	if update.LastCheckOut != nil {
		set["location.$[].zone.$[z].lastcheckout"] = *update.LastCheckOut
	}
	if update.TimeSpent != nil {
		set["location.$[].zone.$[z].timespent"] = *update.TimeSpent
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"location.zone._id": oid},
		bson.M{"$set": set},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"z._id": oid}},
		}),
	)
	if err != nil {
		return fmt.Errorf("update zone visit: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrZoneNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the check-in lookup relies on.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location.zone._id", Value: 1}}},
	})
	return err
}

// --- document mapping ---

func clientToDoc(c *domain.Client) (*clientDoc, error) {
	refs, err := toObjectIDs(c.UserRefs)
	if err != nil {
		return nil, err
	}

	doc := &clientDoc{
		ClientName: c.ClientName,
		Locations:  make([]locationDoc, 0, len(c.Locations)),
		UserRefs:   refs,
	}
	if c.ID != "" {
		oid, err := toObjectID(c.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = oid
	}

	for _, loc := range c.Locations {
		locID, err := toObjectID(loc.ID)
		if err != nil {
			return nil, err
		}
		locUsers, err := toObjectIDs(loc.AssignedUsers)
		if err != nil {
			return nil, err
		}
		ld := locationDoc{
			ID:            locID,
			LocationName:  loc.LocationName,
			AssignedUsers: locUsers,
			Zones:         make([]zoneDoc, 0, len(loc.Zones)),
		}
		for _, z := range loc.Zones {
			zoneID, err := toObjectID(z.ID)
			if err != nil {
				return nil, err
			}
			zoneUsers, err := toObjectIDs(z.AssignedUsers)
			if err != nil {
				return nil, err
			}
			ld.Zones = append(ld.Zones, zoneDoc{
				ID:            zoneID,
				ZoneName:      z.ZoneName,
				Steps:         z.Steps,
				QRCode:        z.QRCode,
				LastCheckIn:   z.LastCheckIn,
				LastCheckOut:  z.LastCheckOut,
				TimeSpent:     z.TimeSpent,
				AssignedUsers: zoneUsers,
			})
		}
		doc.Locations = append(doc.Locations, ld)
	}
	return doc, nil
}

func docToClient(doc *clientDoc) *domain.Client {
	c := &domain.Client{
		ID:         doc.ID.Hex(),
		ClientName: doc.ClientName,
		Locations:  make([]domain.Location, 0, len(doc.Locations)),
		UserRefs:   fromObjectIDs(doc.UserRefs),
	}
	for _, ld := range doc.Locations {
		loc := domain.Location{
			ID:            ld.ID.Hex(),
			LocationName:  ld.LocationName,
			AssignedUsers: fromObjectIDs(ld.AssignedUsers),
			Zones:         make([]domain.Zone, 0, len(ld.Zones)),
		}
		for _, zd := range ld.Zones {
			loc.Zones = append(loc.Zones, domain.Zone{
				ID:            zd.ID.Hex(),
				ZoneName:      zd.ZoneName,
				Steps:         zd.Steps,
				QRCode:        zd.QRCode,
				LastCheckIn:   zd.LastCheckIn,
				LastCheckOut:  zd.LastCheckOut,
				TimeSpent:     zd.TimeSpent,
				AssignedUsers: fromObjectIDs(zd.AssignedUsers),
			})
		}
		c.Locations = append(c.Locations, loc)
	}
	return c
}

func toObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%q: %w", id, domain.ErrInvalidID)
	}
	return oid, nil
}

func toObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := toObjectID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

func fromObjectIDs(oids []primitive.ObjectID) []string {
	out := make([]string, 0, len(oids))
	for _, oid := range oids {
		out = append(out, oid.Hex())
	}
	return out
}
