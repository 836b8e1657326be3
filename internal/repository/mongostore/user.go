package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/engineers/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Engineers    []string  `bson:"engineers"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	ids := d.Engineers
	if ids == nil {
		ids = []string{}
	}
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		EngineerIDs:  ids,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserRepository implements domain.UserRepository. The reference set is an
// array of engineer ids embedded in the user document.
type UserRepository struct {
	col *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	ids := user.EngineerIDs
	if ids == nil {
		ids = []string{}
	}
	doc := userDoc{
		ID:           uuid.NewString(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Engineers:    ids,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := insertOne(ctx, r.col, doc); err != nil {
		return err
	}

	user.ID = doc.ID
	user.EngineerIDs = ids
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := findOne[userDoc](ctx, r.col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	doc, err := findOne[userDoc](ctx, r.col, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	err := updateByID(ctx, r.col, user.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: user.Name},
		{Key: "email", Value: user.Email},
		{Key: "password_hash", Value: user.PasswordHash},
		{Key: "updated_at", Value: now},
	}}})
	if err != nil {
		return err
	}
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	found, err := deleteByID(ctx, r.col, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AddEngineer(ctx context.Context, userID, engineerID string) error {
	return updateByID(ctx, r.col, userID, bson.D{{Key: "$addToSet", Value: bson.D{
		{Key: "engineers", Value: engineerID},
	}}})
}
