package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
)

type specialtyRepository struct {
	BaseRepository
}

func NewSpecialtyRepository(db *sqlx.DB) repository.SpecialtyRepository {
	return &specialtyRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *specialtyRepository) Create(ctx context.Context, specialty *model.Specialty) error {
	query := `
		INSERT INTO specialties (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if specialty.ID == uuid.Nil {
		specialty.ID = uuid.New()
	}
	specialty.CreatedAt = time.Now()
	specialty.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		specialty.ID, specialty.Name, specialty.Description,
		specialty.CreatedAt, specialty.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create specialty: %w", err)
	}
	return nil
}

func (r *specialtyRepository) Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM specialties
		WHERE id = $1
	`
	var specialty model.Specialty
	if err := r.db.GetContext(ctx, &specialty, query, id); err != nil {
		return nil, normalizeErr(err)
	}
	return &specialty, nil
}

func (r *specialtyRepository) List(ctx context.Context) ([]*model.Specialty, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM specialties
		ORDER BY name ASC
	`
	var specialties []*model.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}
