package model

import "github.com/google/uuid"

type Doctor struct {
	Base
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	SpecialtyID     uuid.UUID  `db:"specialty_id" json:"specialty_id"`
	ClinicID        *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	ConsultationFee float64    `db:"consultation_fee" json:"consultation_fee"`
	ProfileInfo     string     `db:"profile_info" json:"profile_info,omitempty"`
}

type CreateDoctorRequest struct {
	UserID          uuid.UUID  `json:"user_id" validate:"required"`
	SpecialtyID     uuid.UUID  `json:"specialty_id" validate:"required"`
	ClinicID        *uuid.UUID `json:"clinic_id"`
	ConsultationFee float64    `json:"consultation_fee" validate:"min=0"`
	ProfileInfo     string     `json:"profile_info" validate:"max=2000"`
}

type UpdateDoctorRequest struct {
	SpecialtyID     *uuid.UUID `json:"specialty_id"`
	ClinicID        *uuid.UUID `json:"clinic_id"`
	ConsultationFee *float64   `json:"consultation_fee" validate:"omitempty,min=0"`
	ProfileInfo     *string    `json:"profile_info" validate:"omitempty,max=2000"`
}

type DoctorFilters struct {
	SpecialtyID uuid.UUID
	ClinicID    uuid.UUID
}
