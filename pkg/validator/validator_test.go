package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	DentistID       string `json:"dentist_id" validate:"required,uuid"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=15,max=480"`
	Notes           string `json:"notes" validate:"max=5"`
	Status          string `json:"status" validate:"omitempty,oneof=SCHEDULED CONFIRMED"`
	Date            string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestFormatValidationErrors_UsesRequestNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(sampleRequest{
		DentistID:       "not-a-uuid",
		DurationMinutes: 5,
		Notes:           "too long",
		Status:          "LOST",
		Date:            "10/03/2026",
	})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "dentist_id must be a valid UUID", msgs["dentist_id"])
	assert.Equal(t, "duration_minutes must be at least 15", msgs["duration_minutes"])
	assert.Equal(t, "notes must be at most 5 characters", msgs["notes"])
	assert.Equal(t, "status must be one of: SCHEDULED, CONFIRMED", msgs["status"])
	assert.Equal(t, "date must match the format 2006-01-02", msgs["date"])
}

func TestValidate_Passes(t *testing.T) {
	v := NewValidator()
	err := v.Validate(sampleRequest{
		DentistID:       "6f1c2b0e-3f7a-4c1e-9a55-1d2b3c4d5e6f",
		DurationMinutes: 30,
		Status:          "CONFIRMED",
		Date:            "2026-03-10",
	})
	assert.NoError(t, err)
	assert.Empty(t, v.FormatValidationErrors(err))
}
