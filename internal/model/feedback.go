package model

import "github.com/google/uuid"

type Feedback struct {
	Base
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	Rating        int       `db:"rating" json:"rating"`
	Comments      string    `db:"comments" json:"comments,omitempty"`
}

type SubmitFeedbackRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments" validate:"max=500"`
}
