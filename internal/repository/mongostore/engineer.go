package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/engineers/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type engineerDoc struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	Specialty       string    `bson:"specialty"`
	YearsExperience int       `bson:"years_experience"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func (d engineerDoc) toDomain() domain.Engineer {
	return domain.Engineer{
		ID:              d.ID,
		Name:            d.Name,
		Specialty:       d.Specialty,
		YearsExperience: d.YearsExperience,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// EngineerRepository implements domain.EngineerRepository.
type EngineerRepository struct {
	col *mongo.Collection
}

func (r *EngineerRepository) Create(ctx context.Context, e *domain.Engineer) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := engineerDoc{
		ID:              uuid.NewString(),
		Name:            e.Name,
		Specialty:       e.Specialty,
		YearsExperience: e.YearsExperience,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := insertOne(ctx, r.col, doc); err != nil {
		return err
	}

	e.ID = doc.ID
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *EngineerRepository) GetByID(ctx context.Context, id string) (*domain.Engineer, error) {
	doc, err := findOne[engineerDoc](ctx, r.col, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}
	e := doc.toDomain()
	return &e, nil
}

func (r *EngineerRepository) GetMany(ctx context.Context, ids []string) ([]domain.Engineer, error) {
	if len(ids) == 0 {
		return []domain.Engineer{}, nil
	}

	docs, err := findMany[engineerDoc](ctx, r.col, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Engineer, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.toDomain()
	}

	out := make([]domain.Engineer, 0, len(docs))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EngineerRepository) Update(ctx context.Context, e *domain.Engineer) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	err := updateByID(ctx, r.col, e.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: e.Name},
		{Key: "specialty", Value: e.Specialty},
		{Key: "years_experience", Value: e.YearsExperience},
		{Key: "updated_at", Value: now},
	}}})
	if err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

func (r *EngineerRepository) Delete(ctx context.Context, id string) error {
	_, err := deleteByID(ctx, r.col, id)
	return err
}
