package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/engineers/internal/domain"
)

// EngineerRepository implements domain.EngineerRepository using SQLite.
type EngineerRepository struct {
	db *sql.DB
}

// NewEngineerRepository creates a new SQLite-backed EngineerRepository.
func NewEngineerRepository(db *DB) *EngineerRepository {
	return &EngineerRepository{db: db.SqlDB}
}

func (r *EngineerRepository) Create(ctx context.Context, e *domain.Engineer) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO engineers (id, name, specialty, years_experience, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, e.Name, e.Specialty, e.YearsExperience, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert engineer: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *EngineerRepository) GetByID(ctx context.Context, id string) (*domain.Engineer, error) {
	e := &domain.Engineer{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, specialty, years_experience, created_at, updated_at
		 FROM engineers WHERE id = ?`, id,
	).Scan(&e.ID, &e.Name, &e.Specialty, &e.YearsExperience, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query engineer by id: %w", err)
	}
	return e, nil
}

func (r *EngineerRepository) GetMany(ctx context.Context, ids []string) ([]domain.Engineer, error) {
	if len(ids) == 0 {
		return []domain.Engineer{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, specialty, years_experience, created_at, updated_at
		 FROM engineers WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query engineers: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.Engineer, len(ids))
	for rows.Next() {
		var e domain.Engineer
		if err := rows.Scan(&e.ID, &e.Name, &e.Specialty, &e.YearsExperience, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan engineer: %w", err)
		}
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate engineers: %w", err)
	}

	return orderByIDs(ids, byID), nil
}

func (r *EngineerRepository) Update(ctx context.Context, e *domain.Engineer) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE engineers SET name = ?, specialty = ?, years_experience = ?, updated_at = ?
		 WHERE id = ?`,
		e.Name, e.Specialty, e.YearsExperience, now, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update engineer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	e.UpdatedAt = now
	return nil
}

func (r *EngineerRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM engineers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete engineer: %w", err)
	}
	return nil
}

// orderByIDs returns the engineers in byID following the order of ids,
// skipping ids that have no record.
func orderByIDs(ids []string, byID map[string]domain.Engineer) []domain.Engineer {
	out := make([]domain.Engineer, 0, len(byID))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}
