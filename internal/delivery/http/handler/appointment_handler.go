package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.BookAppointment(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.RescheduleOrUpdate(r.Context(), appointmentID, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), appointmentID)
	if err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment canceled successfully", appointment)
}

func (h *AppointmentHandler) GetDentistAgenda(w http.ResponseWriter, r *http.Request) {
	dentistID, err := uuid.Parse(mux.Vars(r)["dentistId"])
	if err != nil {
		response.BadRequest(w, "Invalid dentist ID")
		return
	}

	agenda, err := h.appointmentUsecase.ListDentistAgenda(r.Context(), dentistID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err, "Failed to get agenda")
		return
	}

	response.Success(w, http.StatusOK, "Agenda retrieved successfully", agenda)
}

// CheckAvailability reads dentist_id, start_at (RFC 3339), duration_minutes
// and an optional exclude_appointment_id from the query string.
func (h *AppointmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	errs := map[string]string{}

	var req dto.AvailabilityRequest
	if v := query.Get("dentist_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errs["dentist_id"] = "dentist_id must be a valid UUID"
		}
		req.DentistID = id
	}
	if v := query.Get("start_at"); v != "" {
		start, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs["start_at"] = "start_at must be an RFC 3339 timestamp"
		}
		req.StartAt = start
	}
	if v := query.Get("duration_minutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			errs["duration_minutes"] = "duration_minutes must be a number"
		}
		req.DurationMinutes = minutes
	}
	if v := query.Get("exclude_appointment_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			errs["exclude_appointment_id"] = "exclude_appointment_id must be a valid UUID"
		}
		req.ExcludeAppointmentID = &id
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.appointmentUsecase.CheckAvailability(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to check availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability checked successfully", availability)
}
