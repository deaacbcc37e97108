package dto

import (
	"time"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DentistID       uuid.UUID  `json:"dentist_id" validate:"required"`
	PatientID       uuid.UUID  `json:"patient_id" validate:"required"`
	StartAt         time.Time  `json:"start_at" validate:"required"`
	DurationMinutes int        `json:"duration_minutes" validate:"required,min=15,max=480"`
	ProcedureID     *uuid.UUID `json:"procedure_id,omitempty"`
	ProcedureLabel  string     `json:"procedure_label" validate:"max=255"`
	Notes           string     `json:"notes" validate:"max=2000"`
}

// UpdateAppointmentRequest is a partial patch; nil fields keep their value.
type UpdateAppointmentRequest struct {
	DentistID       *uuid.UUID                `json:"dentist_id,omitempty"`
	StartAt         *time.Time                `json:"start_at,omitempty"`
	DurationMinutes *int                      `json:"duration_minutes,omitempty" validate:"omitempty,min=15,max=480"`
	Status          *entity.AppointmentStatus `json:"status,omitempty"`
	ProcedureLabel  *string                   `json:"procedure_label,omitempty" validate:"omitempty,max=255"`
	Notes           *string                   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// MovesSlot reports whether the patch touches the booked interval or dentist.
func (r *UpdateAppointmentRequest) MovesSlot() bool {
	return r.DentistID != nil || r.StartAt != nil || r.DurationMinutes != nil
}

type AvailabilityRequest struct {
	DentistID            uuid.UUID  `json:"dentist_id" validate:"required"`
	StartAt              time.Time  `json:"start_at" validate:"required"`
	DurationMinutes      int        `json:"duration_minutes" validate:"required,min=15,max=480"`
	ExcludeAppointmentID *uuid.UUID `json:"exclude_appointment_id,omitempty"`
}

// Response DTOs

type ProcedureSnapshotResponse struct {
	Name                 string          `json:"name"`
	BaseValue            decimal.Decimal `json:"base_value"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
}

type AppointmentResponse struct {
	ID                uuid.UUID                  `json:"id"`
	ClinicID          uuid.UUID                  `json:"clinic_id"`
	DentistID         uuid.UUID                  `json:"dentist_id"`
	PatientID         uuid.UUID                  `json:"patient_id"`
	PatientName       string                     `json:"patient_name,omitempty"`
	StartAt           time.Time                  `json:"start_at"`
	EndsAt            time.Time                  `json:"ends_at"`
	DurationMinutes   int                        `json:"duration_minutes"`
	Status            string                     `json:"status"`
	ProcedureID       *uuid.UUID                 `json:"procedure_id,omitempty"`
	ProcedureSnapshot *ProcedureSnapshotResponse `json:"procedure_snapshot,omitempty"`
	ProcedureLabel    string                     `json:"procedure_label,omitempty"`
	Notes             string                     `json:"notes,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

type AgendaResponse struct {
	DentistID    uuid.UUID             `json:"dentist_id"`
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailabilityResponse struct {
	DentistID       uuid.UUID `json:"dentist_id"`
	StartAt         time.Time `json:"start_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Available       bool      `json:"available"`
}
