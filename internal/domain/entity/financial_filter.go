package entity

import (
	"time"

	"github.com/google/uuid"
)

// FinancialFilter is a domain-level filter for building a dentist ledger.
// Used by repository layer to avoid coupling with delivery DTOs.
type FinancialFilter struct {
	DateFrom       *time.Time // inclusive
	DateTo         *time.Time // exclusive
	PatientID      *uuid.UUID
	ProcedureID    *uuid.UUID
	CommissionType *CommissionType
}
