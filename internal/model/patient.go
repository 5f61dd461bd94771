package model

import "github.com/google/uuid"

type Patient struct {
	Base
	UserID           uuid.UUID `db:"user_id" json:"user_id"`
	MedicalHistory   *string   `db:"medical_history" json:"medical_history,omitempty"`
	InsuranceDetails *string   `db:"insurance_details" json:"insurance_details,omitempty"`
}

type CreatePatientRequest struct {
	UserID           uuid.UUID `json:"user_id" validate:"required"`
	MedicalHistory   *string   `json:"medical_history" validate:"omitempty,max=4000"`
	InsuranceDetails *string   `json:"insurance_details" validate:"omitempty,max=2000"`
}

type UpdatePatientRequest struct {
	MedicalHistory   *string `json:"medical_history" validate:"omitempty,max=4000"`
	InsuranceDetails *string `json:"insurance_details" validate:"omitempty,max=2000"`
}
