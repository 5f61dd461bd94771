package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medicare/booking-api/internal/lock"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
)

// Typed failures for the booking flow. Handlers map these onto HTTP
// statuses; every one is recoverable from the caller's side.
var (
	ErrPatientNotFound     = errors.New("patient profile not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotNotAvailable    = errors.New("selected time slot is no longer available")
	ErrSlotInPast          = errors.New("cannot book an appointment in the past")
	ErrSlotConflict        = errors.New("time slot is already booked")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrNotFeedbackEligible = errors.New("feedback is only allowed after a completed appointment")
	ErrNotOwner            = errors.New("appointment belongs to another patient")
	ErrNoPayment           = errors.New("no payment recorded for this appointment")
)

// Notifier sends booking lifecycle mail. Implementations must swallow their
// own failures; a lost email never fails a booking.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appointment *model.Appointment)
	AppointmentConfirmed(ctx context.Context, appointment *model.Appointment)
	AppointmentCancelled(ctx context.Context, appointment *model.Appointment)
}

// Service matches booking requests against doctors' availability and drives
// the appointment status lifecycle.
type Service struct {
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	windows      repository.AvailabilityRepository
	appointments repository.AppointmentRepository
	payments     repository.PaymentRepository
	feedbacks    repository.FeedbackRepository
	locker       lock.SlotLocker
	notifier     Notifier
}

func NewService(
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	windows repository.AvailabilityRepository,
	appointments repository.AppointmentRepository,
	payments repository.PaymentRepository,
	feedbacks repository.FeedbackRepository,
	locker lock.SlotLocker,
	notifier Notifier,
) *Service {
	return &Service{
		patients:     patients,
		doctors:      doctors,
		windows:      windows,
		appointments: appointments,
		payments:     payments,
		feedbacks:    feedbacks,
		locker:       locker,
		notifier:     notifier,
	}
}

// NextOccurrence resolves the next calendar timestamp for a weekly slot.
// The day delta deliberately ignores time of day: a slot whose weekday is
// today resolves to today even if its start time has already passed, and
// the past check in Book is what rejects it. Auto-advancing to next week
// here would change observable behavior.
func NextOccurrence(day time.Weekday, start model.TimeOfDay, now time.Time) time.Time {
	daysUntil := (int(day) - int(now.Weekday()) + 7) % 7
	date := now.AddDate(0, 0, daysUntil)
	return start.OnDate(date)
}

// Book creates a Pending appointment for the next occurrence of the given
// weekly slot, or reports the first reason it cannot. The caller identity is
// an explicit parameter; the service never consults ambient session state.
func (s *Service) Book(ctx context.Context, userID, doctorID uuid.UUID, day time.Weekday, start, end model.TimeOfDay, now time.Time) (*model.Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to resolve doctor: %w", err)
	}

	// Exact-match lookup: if the doctor edited their schedule since the
	// patient loaded the page, the stale slot no longer exists.
	if _, err := s.windows.FindWindow(ctx, doctorID, day, start, end); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("failed to look up availability window: %w", err)
	}

	scheduledAt := NextOccurrence(day, start, now)
	if !scheduledAt.After(now) {
		return nil, ErrSlotInPast
	}

	release, err := s.locker.Acquire(ctx, doctorID, scheduledAt)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	defer release()

	taken, err := s.appointments.ExistsAt(ctx, doctorID, scheduledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot conflict: %w", err)
	}
	if taken {
		return nil, ErrSlotConflict
	}

	appointment := &model.Appointment{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		ScheduledAt: scheduledAt,
		Status:      model.AppointmentStatusPending,
		Fee:         doctor.ConsultationFee,
		Notes: fmt.Sprintf("Appointment requested for %s %s-%s",
			scheduledAt.Format("Monday, 02 Jan 2006"), start, end),
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost the race despite the lock; the unique index is the
			// authoritative guard.
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	if s.notifier != nil {
		s.notifier.AppointmentBooked(ctx, appointment)
	}

	return appointment, nil
}

// Confirm is the doctor acknowledging a pending appointment.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanConfirm() {
		return nil, transitionError(appointment.Status, model.AppointmentStatusConfirmed)
	}

	appointment.Status = model.AppointmentStatusConfirmed
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to confirm appointment: %w", err)
	}

	if s.notifier != nil {
		s.notifier.AppointmentConfirmed(ctx, appointment)
	}
	return appointment, nil
}

// Cancel marks the appointment cancelled. Refused once the appointment is
// paid or completed; cancellation is a status change, never a delete.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanCancel() {
		return nil, transitionError(appointment.Status, model.AppointmentStatusCancelled)
	}

	appointment.Status = model.AppointmentStatusCancelled
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	if s.notifier != nil {
		s.notifier.AppointmentCancelled(ctx, appointment)
	}
	return appointment, nil
}

// MarkPaid is the payment collaborator's trigger. It records a Payment row
// with the fee snapshot taken at booking time and flips the status.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, req *model.RecordPaymentRequest) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanMarkPaid() {
		return nil, transitionError(appointment.Status, model.AppointmentStatusPaid)
	}

	payment := &model.Payment{
		AppointmentID: appointment.ID,
		Amount:        appointment.Fee,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Status:        model.PaymentStatusPaid,
		PaidAt:        time.Now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	appointment.Status = model.AppointmentStatusPaid
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to mark appointment paid: %w", err)
	}
	return appointment, nil
}

// Complete closes out a paid visit with the doctor's notes and
// prescription, and makes the appointment eligible for feedback.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, notes, prescription string) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanComplete() {
		return nil, transitionError(appointment.Status, model.AppointmentStatusCompleted)
	}

	appointment.Notes = notes
	if prescription != "" {
		appointment.Prescription = &prescription
	}
	appointment.Status = model.AppointmentStatusCompleted
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to complete appointment: %w", err)
	}
	return appointment, nil
}

// Reschedule moves the appointment to a new datetime, records why, and
// resets the status to Pending so the doctor re-confirms.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newDateTime time.Time, reason string) (*model.Appointment, error) {
	appointment, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !appointment.Status.CanReschedule() {
		return nil, transitionError(appointment.Status, model.AppointmentStatusRescheduled)
	}

	taken, err := s.appointments.ExistsAt(ctx, appointment.DoctorID, newDateTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot conflict: %w", err)
	}
	if taken {
		return nil, ErrSlotConflict
	}

	now := time.Now()
	appointment.ScheduledAt = newDateTime
	appointment.Status = model.AppointmentStatusPending
	appointment.RescheduleReason = &reason
	appointment.RescheduledAt = &now

	if err := s.appointments.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	return appointment, nil
}

// SubmitFeedback accepts a rating from the owning patient once the
// appointment is completed.
func (s *Service) SubmitFeedback(ctx context.Context, userID, appointmentID uuid.UUID, req *model.SubmitFeedbackRequest) (*model.Feedback, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}

	appointment, err := s.get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.PatientID != patient.ID {
		return nil, ErrNotOwner
	}
	if appointment.Status != model.AppointmentStatusCompleted {
		return nil, ErrNotFeedbackEligible
	}

	feedback := &model.Feedback{
		AppointmentID: appointment.ID,
		DoctorID:      appointment.DoctorID,
		PatientID:     patient.ID,
		Rating:        req.Rating,
		Comments:      req.Comments,
	}
	if err := s.feedbacks.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return feedback, nil
}

// GetReceipt returns the payment recorded against an appointment.
func (s *Service) GetReceipt(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	if _, err := s.get(ctx, appointmentID); err != nil {
		return nil, err
	}

	payment, err := s.payments.GetByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoPayment
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListDoctorFeedback returns a doctor's received ratings, newest first.
func (s *Service) ListDoctorFeedback(ctx context.Context, doctorID uuid.UUID) ([]*model.Feedback, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to resolve doctor: %w", err)
	}

	feedbacks, err := s.feedbacks.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedbacks, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListForPatientUser resolves the calling patient's own appointment history.
func (s *Service) ListForPatientUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	patient, err := s.patients.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to resolve patient: %w", err)
	}
	return s.ListAppointments(ctx, &model.AppointmentFilters{PatientID: patient.ID})
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func transitionError(from, to model.AppointmentStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
