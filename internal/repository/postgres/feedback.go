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

type feedbackRepository struct {
	BaseRepository
}

func NewFeedbackRepository(db *sqlx.DB) repository.FeedbackRepository {
	return &feedbackRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	query := `
		INSERT INTO feedbacks (
			id, appointment_id, doctor_id, patient_id, rating, comments,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if feedback.ID == uuid.Nil {
		feedback.ID = uuid.New()
	}
	feedback.CreatedAt = time.Now()
	feedback.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		feedback.ID,
		feedback.AppointmentID,
		feedback.DoctorID,
		feedback.PatientID,
		feedback.Rating,
		feedback.Comments,
		feedback.CreatedAt,
		feedback.UpdatedAt,
	)
	if err != nil {
		if normalized := normalizeErr(err); normalized == repository.ErrDuplicate {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Feedback, error) {
	query := `
		SELECT id, appointment_id, doctor_id, patient_id, rating, comments,
			   created_at, updated_at
		FROM feedbacks
		WHERE doctor_id = $1
		ORDER BY created_at DESC
	`
	var feedbacks []*model.Feedback
	if err := r.db.SelectContext(ctx, &feedbacks, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedbacks, nil
}
