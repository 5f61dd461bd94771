package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/model"
)

// Sentinel errors shared by all implementations. Store-specific failures
// (no rows, unique violations) are normalized onto these so services can
// errors.Is them.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
	}

	// AvailabilityRepository owns the weekly-window template set. The only
	// write is a full transactional replacement of a doctor's set.
	AvailabilityRepository interface {
		ReplaceForDoctor(ctx context.Context, doctorID uuid.UUID, windows []*model.AvailabilityWindow) error
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error)
		FindWindow(ctx context.Context, doctorID uuid.UUID, day time.Weekday, start, end model.TimeOfDay) (*model.AvailabilityWindow, error)
	}

	AppointmentRepository interface {
		// Create returns ErrDuplicate when the partial unique index on
		// (doctor_id, scheduled_at) for non-cancelled rows fires.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		ExistsAt(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
	}

	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Clinic, error)
	}

	SpecialtyRepository interface {
		Create(ctx context.Context, specialty *model.Specialty) error
		Get(ctx context.Context, id uuid.UUID) (*model.Specialty, error)
		List(ctx context.Context) ([]*model.Specialty, error)
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
		GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error)
	}

	FeedbackRepository interface {
		Create(ctx context.Context, feedback *model.Feedback) error
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Feedback, error)
	}
)
