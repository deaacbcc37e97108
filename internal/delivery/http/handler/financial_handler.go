package handler

import (
	"net/http"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type FinancialHandler struct {
	financialReportUsecase usecase.FinancialReportUsecase
	validator              *validator.CustomValidator
}

func NewFinancialHandler(financialReportUsecase usecase.FinancialReportUsecase, validator *validator.CustomValidator) *FinancialHandler {
	return &FinancialHandler{
		financialReportUsecase: financialReportUsecase,
		validator:              validator,
	}
}

func (h *FinancialHandler) GetDentistFinancialReport(w http.ResponseWriter, r *http.Request) {
	dentistID, err := uuid.Parse(mux.Vars(r)["dentistId"])
	if err != nil {
		response.BadRequest(w, "Invalid dentist ID")
		return
	}

	query := r.URL.Query()
	req := dto.FinancialReportRequest{
		DateFrom:       query.Get("date_from"),
		DateTo:         query.Get("date_to"),
		PatientID:      query.Get("patient_id"),
		ProcedureID:    query.Get("procedure_id"),
		CommissionType: query.Get("commission_type"),
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	report, err := h.financialReportUsecase.BuildDentistFinancialReport(r.Context(), dentistID, &req)
	if err != nil {
		writeError(w, err, "Failed to build financial report")
		return
	}

	response.Success(w, http.StatusOK, "Financial report retrieved successfully", report)
}
