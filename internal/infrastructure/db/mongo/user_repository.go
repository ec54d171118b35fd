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
)

const collectionUsers = "users"

// UserRepository is the MongoDB-backed identity store.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName         string               `bson:"firstname"`
	LastName          string               `bson:"lastname"`
	Role              string               `bson:"role"`
	Email             string               `bson:"email"`
	PasswordHash      string               `bson:"passwordHash"`
	AssignedLocations []primitive.ObjectID `bson:"assignedlocations"`
	AssignedZones     []primitive.ObjectID `bson:"assignedzones"`
	ClientID          string               `bson:"clientid,omitempty"`
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return docToUser(&doc), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return docToUser(&doc), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids, err := toObjectIDs(ids)
	if err != nil {
		return nil, err
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*domain.User{}
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, docToUser(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := userToDoc(user)
	if err != nil {
		return nil, err
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Update writes the full merged user back. Partial-update semantics live in
// the service layer, which merges the input over the stored document before
// calling here.
func (r *UserRepository) Update(ctx context.Context, id string, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(id)
	if err != nil {
		return err
	}

	locs, err := toObjectIDs(user.AssignedLocations)
	if err != nil {
		return err
	}
	zones, err := toObjectIDs(user.AssignedZones)
	if err != nil {
		return err
	}

	set := bson.M{
		"firstname":         user.FirstName,
		"lastname":          user.LastName,
		"role":              user.Role,
		"email":             user.Email,
		"assignedlocations": locs,
		"assignedzones":     zones,
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := toObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes enforces email uniqueness at the store boundary.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

func userToDoc(u *domain.User) (*userDoc, error) {
	locs, err := toObjectIDs(u.AssignedLocations)
	if err != nil {
		return nil, err
	}
	zones, err := toObjectIDs(u.AssignedZones)
	if err != nil {
		return nil, err
	}

	doc := &userDoc{
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Role:              u.Role,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		AssignedLocations: locs,
		AssignedZones:     zones,
		ClientID:          u.ClientID,
	}
	if u.ID != "" {
		oid, err := toObjectID(u.ID)
		if err != nil {
			return nil, err
		}
		doc.ID = oid
	}
	return doc, nil
}

func docToUser(doc *userDoc) *domain.User {
	return &domain.User{
		ID:                doc.ID.Hex(),
		FirstName:         doc.FirstName,
		LastName:          doc.LastName,
		Role:              doc.Role,
		Email:             doc.Email,
		PasswordHash:      doc.PasswordHash,
		AssignedLocations: fromObjectIDs(doc.AssignedLocations),
		AssignedZones:     fromObjectIDs(doc.AssignedZones),
		ClientID:          doc.ClientID,
	}
}
