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

type availabilityRepository struct {
	BaseRepository
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{BaseRepository: NewBaseRepository(db)}
}

// ReplaceForDoctor swaps a doctor's whole weekly set in one transaction so a
// crash mid-replace can never leave the doctor with a partial schedule.
func (r *availabilityRepository) ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, windows []*model.AvailabilityWindow) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM availability_windows WHERE doctor_id = $1`, doctorID,
		); err != nil {
			return fmt.Errorf("failed to delete old windows: %w", err)
		}

		query := `
			INSERT INTO availability_windows (id, doctor_id, day, start_minute, end_minute)
			VALUES ($1, $2, $3, $4, $5)
		`
		for _, w := range windows {
			if w.ID == uuid.Nil {
				w.ID = uuid.New()
			}
			w.DoctorID = doctorID
			if _, err := tx.ExecContext(ctx, query,
				w.ID, w.DoctorID, int(w.Day), int(w.Start), int(w.End),
			); err != nil {
				return fmt.Errorf("failed to insert window: %w", err)
			}
		}
		return nil
	})
}

func (r *availabilityRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	query := `
		SELECT id, doctor_id, day, start_minute, end_minute
		FROM availability_windows
		WHERE doctor_id = $1
		ORDER BY day, start_minute
	`
	var windows []*model.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list availability windows: %w", err)
	}
	return windows, nil
}

func (r *availabilityRepository) FindWindow(ctx context.Context, doctorID uuid.UUID, day time.Weekday, start, end model.TimeOfDay) (*model.AvailabilityWindow, error) {
	query := `
		SELECT id, doctor_id, day, start_minute, end_minute
		FROM availability_windows
		WHERE doctor_id = $1 AND day = $2 AND start_minute = $3 AND end_minute = $4
	`
	var window model.AvailabilityWindow
	err := r.db.GetContext(ctx, &window, query, doctorID, int(day), int(start), int(end))
	if err != nil {
		return nil, normalizeErr(err)
	}
	return &window, nil
}
