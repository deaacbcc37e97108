package converter

import (
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		ClinicID:        appointment.ClinicID,
		DentistID:       appointment.DentistID,
		PatientID:       appointment.PatientID,
		StartAt:         appointment.StartAt,
		EndsAt:          appointment.End(),
		DurationMinutes: appointment.DurationMinutes,
		Status:          appointment.Status.String(),
		ProcedureID:     appointment.ProcedureID,
		ProcedureLabel:  appointment.ProcedureLabel,
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Patient != nil {
		response.PatientName = appointment.Patient.FullName
	}

	if snap := appointment.ProcedureSnapshot; snap != nil {
		response.ProcedureSnapshot = &dto.ProcedureSnapshotResponse{
			Name:                 snap.Name,
			BaseValue:            snap.BaseValue.Round(2),
			CommissionPercentage: snap.CommissionPercentage.Round(2),
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
