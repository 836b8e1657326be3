package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/engineers/internal/domain"
)

const (
	maxEngineerNameLength      = 100
	maxEngineerSpecialtyLength = 100
)

// ExperienceFromCheckbox maps an HTML checkbox value to the stored
// experience flag. Only the literal "on" counts as checked.
func ExperienceFromCheckbox(value string) int {
	if value == "on" {
		return 1
	}
	return 0
}

// EngineerService manages engineers on behalf of an authenticated user.
type EngineerService struct {
	engineers        domain.EngineerRepository
	users            domain.UserRepository
	enforceOwnership bool
}

// NewEngineerService creates a new EngineerService. When enforceOwnership
// is false any authenticated user may read, change or delete any engineer
// by id.
func NewEngineerService(engineers domain.EngineerRepository, users domain.UserRepository, enforceOwnership bool) *EngineerService {
	return &EngineerService{
		engineers:        engineers,
		users:            users,
		enforceOwnership: enforceOwnership,
	}
}

// List returns the engineers in user's reference set. References to
// engineers that no longer exist are skipped.
func (s *EngineerService) List(ctx context.Context, user *domain.User) ([]domain.Engineer, error) {
	engineers, err := s.engineers.GetMany(ctx, user.EngineerIDs)
	if err != nil {
		return nil, fmt.Errorf("list engineers: %w", err)
	}
	return engineers, nil
}

// Get returns the engineer with the given id.
func (s *EngineerService) Get(ctx context.Context, user *domain.User, id string) (*domain.Engineer, error) {
	if err := s.checkAccess(user, id); err != nil {
		return nil, err
	}

	e, err := s.engineers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("get engineer: %w", err)
	}
	return e, nil
}

// Create stores a new engineer and appends it to user's reference set.
// The two writes are not atomic; if the second fails the engineer is
// left without an owner and the error is returned.
func (s *EngineerService) Create(ctx context.Context, user *domain.User, in domain.EngineerInput) (*domain.Engineer, error) {
	e := &domain.Engineer{YearsExperience: ExperienceFromCheckbox(in.Experience)}
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Specialty != nil {
		e.Specialty = strings.TrimSpace(*in.Specialty)
	}
	if e.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if err := validateEngineer(e); err != nil {
		return nil, err
	}

	if err := s.engineers.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create engineer: %w", err)
	}

	if err := s.users.AddEngineer(ctx, user.ID, e.ID); err != nil {
		slog.Warn("engineer created without owner reference", "engineer_id", e.ID, "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("add engineer to user: %w", err)
	}
	if !user.OwnsEngineer(e.ID) {
		user.EngineerIDs = append(user.EngineerIDs, e.ID)
	}

	return e, nil
}

// Update changes the engineer with the given id and returns the stored
// result. Name and specialty are kept when absent from in; the experience
// flag is always recomputed from the checkbox value.
func (s *EngineerService) Update(ctx context.Context, user *domain.User, id string, in domain.EngineerInput) (*domain.Engineer, error) {
	e, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		e.Name = name
	}
	if in.Specialty != nil {
		e.Specialty = strings.TrimSpace(*in.Specialty)
	}
	e.YearsExperience = ExperienceFromCheckbox(in.Experience)

	if err := validateEngineer(e); err != nil {
		return nil, err
	}

	if err := s.engineers.Update(ctx, e); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("update engineer: %w", err)
	}
	return e, nil
}

// Delete removes the engineer with the given id. References to it in
// users' sets are not cleaned up.
func (s *EngineerService) Delete(ctx context.Context, user *domain.User, id string) error {
	if err := s.checkAccess(user, id); err != nil {
		return err
	}
	if err := s.engineers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete engineer: %w", err)
	}
	return nil
}

func (s *EngineerService) checkAccess(user *domain.User, id string) error {
	if s.enforceOwnership && !user.OwnsEngineer(id) {
		return notFound(id)
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: no engineer with id %q", domain.ErrNotFound, id)
}

func validateEngineer(e *domain.Engineer) error {
	if len(e.Name) > maxEngineerNameLength {
		return fmt.Errorf("%w: name must be %d characters or fewer", domain.ErrInvalidInput, maxEngineerNameLength)
	}
	if len(e.Specialty) > maxEngineerSpecialtyLength {
		return fmt.Errorf("%w: specialty must be %d characters or fewer", domain.ErrInvalidInput, maxEngineerSpecialtyLength)
	}
	return nil
}
