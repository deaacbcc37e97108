package handler

import (
	"errors"
	"net/http"

	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
)

// writeError maps a usecase failure onto the response envelope. Business
// errors carry their own message; anything else is reported as fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrMissingClinic):
		response.Unauthorized(w, "Clinic context is required")
	case errors.Is(err, usecase.ErrAppointmentAlreadyCanceled):
		response.Conflict(w, err.Error())
	case errors.Is(err, apperror.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, apperror.ErrInactiveEntity):
		response.UnprocessableEntity(w, err.Error())
	case errors.Is(err, apperror.ErrSchedulingConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, apperror.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, apperror.ErrAccessDenied):
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
