package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

// Money is kept at full precision through aggregation and rounded to cents here.
// Totals round from the unrounded sums, so they may differ from the sum of the
// rounded lines by up to one cent per line.
const moneyPlaces = 2

// FinancialReportToResponse converts a FinancialReport to its response DTO
func FinancialReportToResponse(report *entity.FinancialReport) *dto.FinancialReportResponse {
	if report == nil {
		return nil
	}

	transactions := make([]dto.FinancialTransactionResponse, len(report.Transactions))
	for i, tx := range report.Transactions {
		transactions[i] = dto.FinancialTransactionResponse{
			ID:               tx.ID,
			Date:             tx.Date,
			PatientID:        tx.PatientID,
			PatientName:      tx.PatientName,
			ProcedureID:      tx.ProcedureID,
			ProcedureName:    tx.ProcedureName,
			GrossValue:       tx.GrossValue.Round(moneyPlaces),
			CommissionAmount: tx.CommissionAmount.Round(moneyPlaces),
			CommissionType:   string(tx.CommissionType),
			Status:           string(tx.Status),
			Source:           string(tx.Source),
			SourceID:         tx.SourceID,
		}
	}

	return &dto.FinancialReportResponse{
		DentistID:       report.DentistID,
		GrossProduction: report.GrossProduction.Round(moneyPlaces),
		TotalReceived:   report.TotalReceived.Round(moneyPlaces),
		TotalPending:    report.TotalPending.Round(moneyPlaces),
		NetReceived:     report.NetReceived.Round(moneyPlaces),
		Transactions:    transactions,
		Total:           len(transactions),
	}
}
