package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionType tells which rate produced a commission.
type CommissionType string

const (
	CommissionTypeGeneral   CommissionType = "GENERAL"
	CommissionTypeProcedure CommissionType = "PROCEDURE"
)

// TransactionStatus is the settlement state of a ledger line.
type TransactionStatus string

const (
	TransactionStatusPaid    TransactionStatus = "PAGO"
	TransactionStatusPending TransactionStatus = "PENDENTE"
)

// TransactionSource names the record stream a ledger line came from.
type TransactionSource string

const (
	TransactionSourceTreatmentPlan TransactionSource = "TREATMENT_PLAN"
	TransactionSourceAttendance    TransactionSource = "ATTENDANCE"
)

// FinancialTransaction is a derived ledger line; it is never persisted.
type FinancialTransaction struct {
	ID               string
	Date             time.Time
	PatientID        uuid.UUID
	PatientName      string
	ProcedureID      *uuid.UUID
	ProcedureName    string
	GrossValue       decimal.Decimal
	CommissionAmount decimal.Decimal
	CommissionType   CommissionType
	Status           TransactionStatus
	Source           TransactionSource
	SourceID         uuid.UUID
}

// FinancialReport aggregates a dentist's ledger. Amounts keep full precision;
// rounding happens at the presentation boundary.
type FinancialReport struct {
	DentistID       uuid.UUID
	GrossProduction decimal.Decimal
	TotalReceived   decimal.Decimal
	TotalPending    decimal.Decimal
	NetReceived     decimal.Decimal
	Transactions    []FinancialTransaction
}
