package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends appointment lifecycle mail over SMTP. Every send is
// fire-and-forget: a mail failure is logged and never propagates into the
// booking flow.
type Service struct {
	dialer   *gomail.Dialer
	from     string
	users    repository.UserRepository
	patients repository.PatientRepository
}

func NewService(cfg Config, users repository.UserRepository, patients repository.PatientRepository) *Service {
	return &Service{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		users:    users,
		patients: patients,
	}
}

func (s *Service) AppointmentBooked(ctx context.Context, appointment *model.Appointment) {
	s.sendToPatient(ctx, appointment,
		"Appointment requested",
		fmt.Sprintf("Your appointment request for %s has been received and is awaiting confirmation.",
			appointment.ScheduledAt.Format("Monday, 02 Jan 2006 15:04")))
}

func (s *Service) AppointmentConfirmed(ctx context.Context, appointment *model.Appointment) {
	s.sendToPatient(ctx, appointment,
		"Appointment confirmed",
		fmt.Sprintf("Your appointment on %s has been confirmed by the doctor.",
			appointment.ScheduledAt.Format("Monday, 02 Jan 2006 15:04")))
}

func (s *Service) AppointmentCancelled(ctx context.Context, appointment *model.Appointment) {
	s.sendToPatient(ctx, appointment,
		"Appointment cancelled",
		fmt.Sprintf("Your appointment on %s has been cancelled.",
			appointment.ScheduledAt.Format("Monday, 02 Jan 2006 15:04")))
}

func (s *Service) sendToPatient(ctx context.Context, appointment *model.Appointment, subject, body string) {
	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("email: failed to resolve patient")
		return
	}
	user, err := s.users.Get(ctx, patient.UserID)
	if err != nil {
		log.Warn().Err(err).Str("patient_id", patient.ID.String()).Msg("email: failed to resolve user")
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", user.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	go func() {
		if err := s.dialer.DialAndSend(msg); err != nil {
			log.Warn().Err(err).Str("to", user.Email).Msg("email: send failed")
		}
	}()
}
