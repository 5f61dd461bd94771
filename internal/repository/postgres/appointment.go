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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new appointment. The schema carries a partial unique
// index on (doctor_id, scheduled_at) WHERE status <> 'cancelled'; a
// violation surfaces as repository.ErrDuplicate and is the authoritative
// double-booking guard, the service-level ExistsAt check is advisory.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, scheduled_at, status, fee,
			notes, prescription, reschedule_reason, rescheduled_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.ScheduledAt,
		appointment.Status,
		appointment.Fee,
		appointment.Notes,
		appointment.Prescription,
		appointment.RescheduleReason,
		appointment.RescheduledAt,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		if normalized := normalizeErr(err); normalized == repository.ErrDuplicate {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, scheduled_at, status, fee,
			   notes, prescription, reschedule_reason, rescheduled_at,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, normalizeErr(err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET scheduled_at = $1, status = $2, notes = $3, prescription = $4,
			reschedule_reason = $5, rescheduled_at = $6, updated_at = $7
		WHERE id = $8
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.ScheduledAt,
		appointment.Status,
		appointment.Notes,
		appointment.Prescription,
		appointment.RescheduleReason,
		appointment.RescheduledAt,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		if normalized := normalizeErr(err); normalized == repository.ErrDuplicate {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, scheduled_at, status, fee,
			   notes, prescription, reschedule_reason, rescheduled_at,
			   created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.From.IsZero() {
		query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
		args = append(args, filters.From)
		argCount++
	}

	if !filters.To.IsZero() {
		query += fmt.Sprintf(" AND scheduled_at <= $%d", argCount)
		args = append(args, filters.To)
		argCount++
	}

	query += " ORDER BY scheduled_at ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ExistsAt checks for a non-cancelled appointment at exactly the given
// timestamp. Comparison is exact equality, not interval overlap: the
// availability window is the unit of booking.
func (r *appointmentRepository) ExistsAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND scheduled_at = $2
			AND status <> 'cancelled'
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, doctorID, at); err != nil {
		return false, fmt.Errorf("failed to check slot conflict: %w", err)
	}
	return exists, nil
}
