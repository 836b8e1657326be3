package domain

import (
	"context"
	"time"
)

// Engineer is a roster entry. It carries no owner field; users reference
// engineers through User.EngineerIDs.
type Engineer struct {
	ID              string
	Name            string
	Specialty       string
	YearsExperience int // 0 or 1
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasExperience reports whether the experience flag is set.
func (e Engineer) HasExperience() bool {
	return e.YearsExperience > 0
}

// EngineerInput carries create and update fields as submitted by a client.
// Experience is the raw checkbox value; it is coerced before it is stored.
type EngineerInput struct {
	Name       *string
	Specialty  *string
	Experience string
}

// EngineerRepository defines persistence operations for engineers.
type EngineerRepository interface {
	Create(ctx context.Context, engineer *Engineer) error
	GetByID(ctx context.Context, id string) (*Engineer, error)
	// GetMany returns the engineers whose ids are listed, in the order given.
	// Ids with no matching record are skipped.
	GetMany(ctx context.Context, ids []string) ([]Engineer, error)
	// Update writes the engineer's mutable fields and returns the stored record.
	Update(ctx context.Context, engineer *Engineer) error
	// Delete removes the engineer. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
