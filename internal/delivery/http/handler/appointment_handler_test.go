package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/response"
	"go-dental-clinic/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppointmentUsecase struct {
	bookFunc         func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	getFunc          func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	agendaFunc       func(ctx context.Context, dentistID uuid.UUID, date string) (*dto.AgendaResponse, error)
	availabilityFunc func(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	updateFunc       func(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	cancelFunc       func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
}

func (f *fakeAppointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return f.bookFunc(ctx, req)
}

func (f *fakeAppointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeAppointmentUsecase) ListDentistAgenda(ctx context.Context, dentistID uuid.UUID, date string) (*dto.AgendaResponse, error) {
	return f.agendaFunc(ctx, dentistID, date)
}

func (f *fakeAppointmentUsecase) CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	return f.availabilityFunc(ctx, req)
}

func (f *fakeAppointmentUsecase) RescheduleOrUpdate(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return f.updateFunc(ctx, id, req)
}

func (f *fakeAppointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return f.cancelFunc(ctx, id)
}

func newAppointmentRouter(uc usecase.AppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(uc, validator.NewValidator())
	r := mux.NewRouter()
	r.HandleFunc("/appointments", h.BookAppointment).Methods(http.MethodPost)
	r.HandleFunc("/appointments/availability", h.CheckAvailability).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.GetAppointment).Methods(http.MethodGet)
	r.HandleFunc("/appointments/{id}", h.UpdateAppointment).Methods(http.MethodPatch)
	r.HandleFunc("/appointments/{id}", h.CancelAppointment).Methods(http.MethodDelete)
	r.HandleFunc("/dentists/{dentistId}/agenda", h.GetDentistAgenda).Methods(http.MethodGet)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestBookAppointment_Created(t *testing.T) {
	dentistID, patientID := uuid.New(), uuid.New()
	var got *dto.CreateAppointmentRequest
	uc := &fakeAppointmentUsecase{
		bookFunc: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
			got = req
			return &dto.AppointmentResponse{ID: uuid.New(), Status: "SCHEDULED"}, nil
		},
	}

	body := `{"dentist_id":"` + dentistID.String() + `","patient_id":"` + patientID.String() +
		`","start_at":"2026-03-02T15:00:00Z","duration_minutes":30}`
	rec := httptest.NewRecorder()
	newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
	require.NotNil(t, got)
	assert.Equal(t, dentistID, got.DentistID)
	assert.Equal(t, time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC), got.StartAt.UTC())
}

func TestBookAppointment_ValidationFailure(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	body := `{"dentist_id":"` + uuid.NewString() + `","patient_id":"` + uuid.NewString() +
		`","start_at":"2026-03-02T15:00:00Z","duration_minutes":5}`

	rec := httptest.NewRecorder()
	newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, env.Error, "duration_minutes")
}

func TestBookAppointment_MalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newAppointmentRouter(&fakeAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookAppointment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", usecase.ErrSchedulingConflict, http.StatusConflict},
		{"inactive dentist", usecase.ErrDentistInactive, http.StatusUnprocessableEntity},
		{"missing patient", usecase.ErrPatientNotFound, http.StatusNotFound},
		{"validation", usecase.ErrInvalidDuration, http.StatusBadRequest},
		{"access denied", usecase.ErrDentistScopeDenied, http.StatusForbidden},
		{"no clinic", usecase.ErrMissingClinic, http.StatusUnauthorized},
		{"infrastructure", apperror.Wrap("create appointment", errors.New("dial tcp: refused")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAppointmentUsecase{
				bookFunc: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
					return nil, tt.err
				},
			}
			body := `{"dentist_id":"` + uuid.NewString() + `","patient_id":"` + uuid.NewString() +
				`","start_at":"2026-03-02T15:00:00Z","duration_minutes":30}`

			rec := httptest.NewRecorder()
			newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

			assert.Equal(t, tt.want, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).Success)
		})
	}
}

func TestBookAppointment_InfrastructureMessageIsGeneric(t *testing.T) {
	uc := &fakeAppointmentUsecase{
		bookFunc: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
			return nil, apperror.Wrap("create appointment", errors.New("password authentication failed"))
		},
	}
	body := `{"dentist_id":"` + uuid.NewString() + `","patient_id":"` + uuid.NewString() +
		`","start_at":"2026-03-02T15:00:00Z","duration_minutes":30}`

	rec := httptest.NewRecorder()
	newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

	assert.Equal(t, "Failed to book appointment", decodeEnvelope(t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateAppointment_PassesPatch(t *testing.T) {
	id := uuid.New()
	var gotID uuid.UUID
	var gotReq *dto.UpdateAppointmentRequest
	uc := &fakeAppointmentUsecase{
		updateFunc: func(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
			gotID, gotReq = appointmentID, req
			return &dto.AppointmentResponse{ID: appointmentID, Status: "CONFIRMED"}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+id.String(), strings.NewReader(`{"status":"CONFIRMED"}`))
	newAppointmentRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gotID)
	require.NotNil(t, gotReq.Status)
	assert.Equal(t, "CONFIRMED", gotReq.Status.String())
	assert.False(t, gotReq.MovesSlot())
}

func TestUpdateAppointment_UnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/appointments/"+uuid.NewString(), strings.NewReader(`{"status":"LATE"}`))
	newAppointmentRouter(&fakeAppointmentUsecase{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAppointment_AlreadyCanceledIsConflict(t *testing.T) {
	uc := &fakeAppointmentUsecase{
		cancelFunc: func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
			return nil, usecase.ErrAppointmentAlreadyCanceled
		},
	}

	rec := httptest.NewRecorder()
	newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/appointments/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetAppointment_InvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	newAppointmentRouter(&fakeAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDentistAgenda_ForwardsDate(t *testing.T) {
	dentistID := uuid.New()
	var gotDate string
	uc := &fakeAppointmentUsecase{
		agendaFunc: func(ctx context.Context, id uuid.UUID, date string) (*dto.AgendaResponse, error) {
			gotDate = date
			return &dto.AgendaResponse{DentistID: id, Date: date}, nil
		},
	}

	rec := httptest.NewRecorder()
	newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dentists/"+dentistID.String()+"/agenda?date=2026-03-02", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-03-02", gotDate)
}

func TestCheckAvailability_ParsesQuery(t *testing.T) {
	dentistID, excludeID := uuid.New(), uuid.New()
	var got *dto.AvailabilityRequest
	uc := &fakeAppointmentUsecase{
		availabilityFunc: func(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
			got = req
			return &dto.AvailabilityResponse{DentistID: req.DentistID, Available: true}, nil
		},
	}

	url := "/appointments/availability?dentist_id=" + dentistID.String() +
		"&start_at=2026-03-02T14:30:00Z&duration_minutes=45&exclude_appointment_id=" + excludeID.String()
	rec := httptest.NewRecorder()
	newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, dentistID, got.DentistID)
	assert.Equal(t, 45, got.DurationMinutes)
	require.NotNil(t, got.ExcludeAppointmentID)
	assert.Equal(t, excludeID, *got.ExcludeAppointmentID)
}

func TestCheckAvailability_BadQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	url := "/appointments/availability?dentist_id=x&start_at=tomorrow&duration_minutes=30"
	newAppointmentRouter(&fakeAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Error, "dentist_id")
	assert.Contains(t, env.Error, "start_at")
}
