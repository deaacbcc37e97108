package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// FinancialReportRequest carries the report filters from the query string.
// Dates are calendar days in the clinic time zone, both inclusive.
type FinancialReportRequest struct {
	DateFrom       string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo         string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	PatientID      string `json:"patient_id" validate:"omitempty,uuid"`
	ProcedureID    string `json:"procedure_id" validate:"omitempty,uuid"`
	CommissionType string `json:"commission_type" validate:"omitempty,oneof=GENERAL PROCEDURE"`
}

// Response DTOs

type FinancialTransactionResponse struct {
	ID               string          `json:"id"`
	Date             time.Time       `json:"date"`
	PatientID        uuid.UUID       `json:"patient_id"`
	PatientName      string          `json:"patient_name"`
	ProcedureID      *uuid.UUID      `json:"procedure_id,omitempty"`
	ProcedureName    string          `json:"procedure_name"`
	GrossValue       decimal.Decimal `json:"gross_value"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	CommissionType   string          `json:"commission_type"`
	Status           string          `json:"status"`
	Source           string          `json:"source"`
	SourceID         uuid.UUID       `json:"source_id"`
}

type FinancialReportResponse struct {
	DentistID       uuid.UUID                      `json:"dentist_id"`
	GrossProduction decimal.Decimal                `json:"gross_production"`
	TotalReceived   decimal.Decimal                `json:"total_received"`
	TotalPending    decimal.Decimal                `json:"total_pending"`
	NetReceived     decimal.Decimal                `json:"net_received"`
	Transactions    []FinancialTransactionResponse `json:"transactions"`
	Total           int                            `json:"total"`
}
