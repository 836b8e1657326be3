package domain

import (
	"context"
	"slices"
	"time"
)

// User represents a registered account. EngineerIDs is the user's reference
// set; it is the only place ownership of an engineer is recorded.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string `json:"-"`
	EngineerIDs  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnsEngineer reports whether id is in the user's reference set.
func (u *User) OwnsEngineer(id string) bool {
	return slices.Contains(u.EngineerIDs, id)
}

// UserUpdate lists the fields a user may change about their account.
// A nil field is left untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	// AddEngineer inserts engineerID into the user's reference set.
	// Adding an id that is already present is a no-op.
	AddEngineer(ctx context.Context, userID, engineerID string) error
}
