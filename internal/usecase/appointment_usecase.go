package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDentistNotFound   = apperror.New(apperror.ErrNotFound, "dentist not found")
	ErrDentistInactive   = apperror.New(apperror.ErrInactiveEntity, "dentist is inactive")
	ErrPatientNotFound   = apperror.New(apperror.ErrNotFound, "patient not found")
	ErrPatientInactive   = apperror.New(apperror.ErrInactiveEntity, "patient is inactive")
	ErrProcedureNotFound = apperror.New(apperror.ErrNotFound, "procedure not found")
	ErrProcedureInactive = apperror.New(apperror.ErrInactiveEntity, "procedure is inactive")

	ErrSchedulingConflict = apperror.New(apperror.ErrSchedulingConflict, "dentist already has an appointment in this time slot")

	ErrAppointmentNotFound        = apperror.New(apperror.ErrNotFound, "appointment not found")
	ErrAppointmentCanceled        = apperror.New(apperror.ErrValidation, "appointment is canceled and cannot be rescheduled or reopened")
	ErrAppointmentAlreadyCanceled = apperror.New(apperror.ErrValidation, "appointment is already canceled")

	ErrInvalidDuration = apperror.New(apperror.ErrValidation,
		fmt.Sprintf("duration must be between %d and %d minutes", entity.MinAppointmentDuration, entity.MaxAppointmentDuration))
	ErrStartRequired   = apperror.New(apperror.ErrValidation, "start time is required")
	ErrDentistRequired = apperror.New(apperror.ErrValidation, "dentist is required")
	ErrPatientRequired = apperror.New(apperror.ErrValidation, "patient is required")
	ErrInvalidStatus   = apperror.New(apperror.ErrValidation, "invalid appointment status")
	ErrInvalidDate     = apperror.New(apperror.ErrValidation, "date must be formatted as YYYY-MM-DD")
)

const auditEntityAppointment = "appointment"

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListDentistAgenda(ctx context.Context, dentistID uuid.UUID, date string) (*dto.AgendaResponse, error)
	CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	RescheduleOrUpdate(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	location        *time.Location
	appointmentRepo repository.AppointmentRepository
	dentistRepo     repository.DentistRepository
	patientRepo     repository.PatientRepository
	procedureRepo   repository.ProcedureRepository
	conflictService service.ConflictService
	slotLock        *service.SlotLockService
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	location *time.Location,
	appointmentRepo repository.AppointmentRepository,
	dentistRepo repository.DentistRepository,
	patientRepo repository.PatientRepository,
	procedureRepo repository.ProcedureRepository,
	conflictService service.ConflictService,
	slotLock *service.SlotLockService,
	auditService service.AuditService,
) AppointmentUsecase {
	if location == nil {
		location = time.UTC
	}
	return &appointmentUsecase{
		db:              db,
		log:             log,
		location:        location,
		appointmentRepo: appointmentRepo,
		dentistRepo:     dentistRepo,
		patientRepo:     patientRepo,
		procedureRepo:   procedureRepo,
		conflictService: conflictService,
		slotLock:        slotLock,
		auditService:    auditService,
	}
}

// BookAppointment creates a SCHEDULED appointment.
//
// Flow (first failure wins):
// 1. Dentist exists in clinic and is active
// 2. Patient exists in clinic and is active
// 3. Procedure, if given, exists and is active; its pricing is snapshotted
// 4. Slot lock for the dentist's day, then conflict check inside the tx
// 5. Insert + audit row, commit
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case req.DentistID == uuid.Nil:
		return nil, ErrDentistRequired
	case req.PatientID == uuid.Nil:
		return nil, ErrPatientRequired
	case req.StartAt.IsZero():
		return nil, ErrStartRequired
	case !entity.ValidDuration(req.DurationMinutes):
		return nil, ErrInvalidDuration
	}

	if _, err := u.activeDentist(ctx, c.clinicID, req.DentistID); err != nil {
		return nil, err
	}

	patient, err := u.activePatient(ctx, c.clinicID, req.PatientID)
	if err != nil {
		return nil, err
	}

	var snapshot *entity.ProcedureSnapshot
	if req.ProcedureID != nil {
		procedure, err := u.activeProcedure(ctx, c.clinicID, *req.ProcedureID)
		if err != nil {
			return nil, err
		}
		snapshot = procedure.Snapshot()
	}

	appointment := &entity.Appointment{
		ClinicID:          c.clinicID,
		DentistID:         req.DentistID,
		PatientID:         req.PatientID,
		StartAt:           req.StartAt.UTC(),
		DurationMinutes:   req.DurationMinutes,
		Status:            entity.AppointmentStatusScheduled,
		ProcedureID:       req.ProcedureID,
		ProcedureSnapshot: snapshot,
		ProcedureLabel:    req.ProcedureLabel,
		Notes:             req.Notes,
	}
	if appointment.ProcedureLabel == "" && snapshot != nil {
		appointment.ProcedureLabel = snapshot.Name
	}

	release, err := u.lockSlot(ctx, appointment.DentistID, appointment.StartAt)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, apperror.Wrap("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	if err := u.ensureNoConflict(ctx, tx, appointment, nil); err != nil {
		return nil, err
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		return nil, u.writeError("create appointment", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, c.clinicID, c.userID, entity.AuditActionAppointmentCreate,
		auditEntityAppointment, appointment.ID.String(), auditView(appointment)); err != nil {
		return nil, apperror.Wrap("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment: %+v", err)
		return nil, u.writeError("commit appointment", err)
	}

	appointment.Patient = patient
	u.log.Infof("Appointment booked: id=%s, dentist=%s, start=%s, duration=%d",
		appointment.ID, appointment.DentistID, appointment.StartAt.Format(time.RFC3339), appointment.DurationMinutes)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(u.db.WithContext(ctx), c.clinicID, id)
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListDentistAgenda returns every appointment of the dentist starting on the
// given clinic day (YYYY-MM-DD, today when empty), all statuses included.
func (u *appointmentUsecase) ListDentistAgenda(ctx context.Context, dentistID uuid.UUID, date string) (*dto.AgendaResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	day := time.Now().In(u.location)
	if date != "" {
		day, err = time.ParseInLocation(time.DateOnly, date, u.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
	}

	dentist, err := findDentist(u.db.WithContext(ctx), u.log, u.dentistRepo, c.clinicID, dentistID)
	if err != nil {
		return nil, err
	}
	if !c.canSeeDentist(dentist) {
		return nil, ErrDentistScopeDenied
	}

	dayStart, dayEnd := u.conflictService.DayBounds(day)
	appointments, err := u.appointmentRepo.FindByDentistAndDay(u.db.WithContext(ctx), c.clinicID, dentistID, dayStart, dayEnd)
	if err != nil {
		u.log.Warnf("Failed to find agenda for dentist %s: %+v", dentistID, err)
		return nil, apperror.Wrap("load agenda", err)
	}

	return &dto.AgendaResponse{
		DentistID:    dentistID,
		Date:         dayStart.Format(time.DateOnly),
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CheckAvailability runs the conflict check without booking anything.
func (u *appointmentUsecase) CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case req.DentistID == uuid.Nil:
		return nil, ErrDentistRequired
	case req.StartAt.IsZero():
		return nil, ErrStartRequired
	case !entity.ValidDuration(req.DurationMinutes):
		return nil, ErrInvalidDuration
	}

	if _, err := findDentist(u.db.WithContext(ctx), u.log, u.dentistRepo, c.clinicID, req.DentistID); err != nil {
		return nil, err
	}

	conflict, err := u.conflictService.HasConflict(ctx, u.db, service.ConflictQuery{
		ClinicID:             c.clinicID,
		DentistID:            req.DentistID,
		Start:                req.StartAt,
		DurationMinutes:      req.DurationMinutes,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.AvailabilityResponse{
		DentistID:       req.DentistID,
		StartAt:         req.StartAt,
		EndsAt:          req.StartAt.Add(time.Duration(req.DurationMinutes) * time.Minute),
		DurationMinutes: req.DurationMinutes,
		Available:       !conflict,
	}, nil
}

// RescheduleOrUpdate applies a partial patch.
//
// The conflict check re-runs, excluding the appointment itself, when the
// dentist, start or duration changes, whatever the resulting status, or when a
// non-blocking status is moved back to a blocking one. A patch that cancels
// skips it. Status-only changes do not re-validate the dentist, patient or
// procedure.
func (u *appointmentUsecase) RescheduleOrUpdate(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req.DurationMinutes != nil && !entity.ValidDuration(*req.DurationMinutes) {
		return nil, ErrInvalidDuration
	}
	if req.StartAt != nil && req.StartAt.IsZero() {
		return nil, ErrStartRequired
	}
	if req.DentistID != nil && *req.DentistID == uuid.Nil {
		return nil, ErrDentistRequired
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.findAppointment(u.db.WithContext(ctx), c.clinicID, id)
	if err != nil {
		return nil, err
	}

	if appointment.IsCanceled() && (req.MovesSlot() || (req.Status != nil && *req.Status != entity.AppointmentStatusCanceled)) {
		return nil, ErrAppointmentCanceled
	}

	before := auditView(appointment)
	wasBlocking := appointment.Status.BlocksSlot()
	slotChanged := false

	if req.DentistID != nil && *req.DentistID != appointment.DentistID {
		if _, err := u.activeDentist(ctx, c.clinicID, *req.DentistID); err != nil {
			return nil, err
		}
		appointment.DentistID = *req.DentistID
		slotChanged = true
	}
	if req.StartAt != nil && !req.StartAt.Equal(appointment.StartAt) {
		appointment.StartAt = req.StartAt.UTC()
		slotChanged = true
	}
	if req.DurationMinutes != nil && *req.DurationMinutes != appointment.DurationMinutes {
		appointment.DurationMinutes = *req.DurationMinutes
		slotChanged = true
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}
	if req.ProcedureLabel != nil {
		appointment.ProcedureLabel = *req.ProcedureLabel
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	reblocking := appointment.Status.BlocksSlot() && !wasBlocking
	recheck := !appointment.IsCanceled() && (slotChanged || reblocking)

	if recheck {
		release, err := u.lockSlot(ctx, appointment.DentistID, appointment.StartAt)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, apperror.Wrap("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	if recheck {
		if err := u.ensureNoConflict(ctx, tx, appointment, &appointment.ID); err != nil {
			return nil, err
		}
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		return nil, u.writeError("update appointment", err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, c.clinicID, c.userID, entity.AuditActionAppointmentUpdate,
		auditEntityAppointment, appointment.ID.String(), before, auditView(appointment)); err != nil {
		return nil, apperror.Wrap("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit appointment %s: %+v", appointment.ID, err)
		return nil, u.writeError("commit appointment", err)
	}

	u.log.Infof("Appointment updated: id=%s, status=%s, rechecked=%t", appointment.ID, appointment.Status, recheck)
	return converter.AppointmentToResponse(appointment), nil
}

// CancelAppointment moves the appointment to CANCELED. Rows are never deleted.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.findAppointment(u.db.WithContext(ctx), c.clinicID, id)
	if err != nil {
		return nil, err
	}
	if appointment.IsCanceled() {
		return nil, ErrAppointmentAlreadyCanceled
	}

	before := auditView(appointment)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, apperror.Wrap("begin transaction", tx.Error)
	}
	defer tx.Rollback()

	affected, err := u.appointmentRepo.Cancel(tx, c.clinicID, id)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return nil, apperror.Wrap("cancel appointment", err)
	}
	// Someone else canceled it between the read and the update.
	if affected == 0 {
		return nil, ErrAppointmentAlreadyCanceled
	}

	if err := u.auditService.LogCancel(ctx, tx, c.clinicID, c.userID, entity.AuditActionAppointmentCancel,
		auditEntityAppointment, id.String(), before); err != nil {
		return nil, apperror.Wrap("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit cancel of appointment %s: %+v", id, err)
		return nil, apperror.Wrap("commit cancel", err)
	}

	appointment.Cancel()
	u.log.Infof("Appointment canceled: id=%s", id)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) findAppointment(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, clinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, apperror.Wrap("find appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) activeDentist(ctx context.Context, clinicID, id uuid.UUID) (*entity.Dentist, error) {
	dentist, err := findDentist(u.db.WithContext(ctx), u.log, u.dentistRepo, clinicID, id)
	if err != nil {
		return nil, err
	}
	if !dentist.IsActive() {
		return nil, ErrDentistInactive
	}
	return dentist, nil
}

func (u *appointmentUsecase) activePatient(ctx context.Context, clinicID, id uuid.UUID) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), clinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, apperror.Wrap("find patient", err)
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	if !patient.IsActive {
		return nil, ErrPatientInactive
	}
	return patient, nil
}

func (u *appointmentUsecase) activeProcedure(ctx context.Context, clinicID, id uuid.UUID) (*entity.Procedure, error) {
	procedure, err := u.procedureRepo.FindByID(u.db.WithContext(ctx), clinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find procedure %s: %+v", id, err)
		return nil, apperror.Wrap("find procedure", err)
	}
	if procedure == nil {
		return nil, ErrProcedureNotFound
	}
	if !procedure.IsActive {
		return nil, ErrProcedureInactive
	}
	return procedure, nil
}

func (u *appointmentUsecase) ensureNoConflict(ctx context.Context, tx *gorm.DB, appointment *entity.Appointment, exclude *uuid.UUID) error {
	conflict, err := u.conflictService.HasConflict(ctx, tx, service.ConflictQuery{
		ClinicID:             appointment.ClinicID,
		DentistID:            appointment.DentistID,
		Start:                appointment.StartAt,
		DurationMinutes:      appointment.DurationMinutes,
		ExcludeAppointmentID: exclude,
	})
	if err != nil {
		return err
	}
	if conflict {
		return ErrSchedulingConflict
	}
	return nil
}

// lockSlot takes the dentist/day booking lock when the service is wired.
func (u *appointmentUsecase) lockSlot(ctx context.Context, dentistID uuid.UUID, start time.Time) (func(), error) {
	if u.slotLock == nil {
		return func() {}, nil
	}
	lock, err := u.slotLock.Acquire(ctx, dentistID, start)
	if err != nil {
		return nil, apperror.Wrap("acquire booking lock", err)
	}
	return func() { lock.Release(ctx) }, nil
}

// writeError maps storage rejections of an appointment write. The overlap
// exclusion constraint surfaces as the same conflict the fast-path check returns.
func (u *appointmentUsecase) writeError(op string, err error) error {
	if errors.Is(err, apperror.ErrSchedulingConflict) {
		return ErrSchedulingConflict
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
	return apperror.Wrap(op, err)
}

func auditView(a *entity.Appointment) map[string]interface{} {
	view := map[string]interface{}{
		"dentist_id":       a.DentistID.String(),
		"patient_id":       a.PatientID.String(),
		"start_at":         a.StartAt.Format(time.RFC3339),
		"duration_minutes": a.DurationMinutes,
		"status":           a.Status.String(),
	}
	if a.ProcedureID != nil {
		view["procedure_id"] = a.ProcedureID.String()
	}
	if a.ProcedureLabel != "" {
		view["procedure_label"] = a.ProcedureLabel
	}
	if a.Notes != "" {
		view["notes"] = a.Notes
	}
	return view
}
