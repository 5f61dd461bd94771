package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusPaid        AppointmentStatus = "paid"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// ParseAppointmentStatus normalizes free-form status text at the boundary so
// the rest of the code only ever compares enum values.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AppointmentStatusPending:
		return AppointmentStatusPending, nil
	case AppointmentStatusConfirmed:
		return AppointmentStatusConfirmed, nil
	case AppointmentStatusPaid:
		return AppointmentStatusPaid, nil
	case AppointmentStatusCompleted:
		return AppointmentStatusCompleted, nil
	case AppointmentStatusCancelled:
		return AppointmentStatusCancelled, nil
	case AppointmentStatusRescheduled:
		return AppointmentStatusRescheduled, nil
	default:
		return "", fmt.Errorf("unknown appointment status %q", s)
	}
}

// CanConfirm reports whether a doctor may acknowledge the appointment.
func (s AppointmentStatus) CanConfirm() bool {
	return s == AppointmentStatusPending
}

// CanCancel is false once money has changed hands or the visit happened.
func (s AppointmentStatus) CanCancel() bool {
	switch s {
	case AppointmentStatusPaid, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return false
	}
	return true
}

// CanMarkPaid gates the external payment trigger.
func (s AppointmentStatus) CanMarkPaid() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// CanComplete requires payment before the visit is closed out.
func (s AppointmentStatus) CanComplete() bool {
	return s == AppointmentStatusPaid
}

// CanReschedule is false only for the two terminal states.
func (s AppointmentStatus) CanReschedule() bool {
	return s != AppointmentStatusCompleted && s != AppointmentStatusCancelled
}

// Appointment is a concrete booking instantiated from an availability
// window. Cancellation is a status, never a row delete.
type Appointment struct {
	Base
	PatientID        uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID         uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	ScheduledAt      time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Status           AppointmentStatus `db:"status" json:"status"`
	Fee              float64           `db:"fee" json:"fee"`
	Notes            string            `db:"notes" json:"notes,omitempty"`
	Prescription     *string           `db:"prescription" json:"prescription,omitempty"`
	RescheduleReason *string           `db:"reschedule_reason" json:"reschedule_reason,omitempty"`
	RescheduledAt    *time.Time        `db:"rescheduled_at" json:"rescheduled_at,omitempty"`
}

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Day      int       `json:"day" validate:"min=0,max=6"`
	Start    TimeOfDay `json:"start" validate:"required"`
	End      TimeOfDay `json:"end" validate:"required"`
}

type RescheduleAppointmentRequest struct {
	NewDateTime time.Time `json:"new_date_time" validate:"required"`
	Reason      string    `json:"reason" validate:"required,max=500"`
}

type CompleteAppointmentRequest struct {
	Notes        string `json:"notes" validate:"max=2000"`
	Prescription string `json:"prescription" validate:"max=2000"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Status    AppointmentStatus
	From      time.Time
	To        time.Time
}
