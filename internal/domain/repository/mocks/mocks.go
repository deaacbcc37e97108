// Package mocks provides function-field fakes of the repository contracts for
// service and usecase tests. Unset functions return zero values.
package mocks

import (
	"sync/atomic"
	"time"

	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	_ repository.AppointmentRepository   = (*AppointmentRepository)(nil)
	_ repository.DentistRepository       = (*DentistRepository)(nil)
	_ repository.PatientRepository       = (*PatientRepository)(nil)
	_ repository.ProcedureRepository     = (*ProcedureRepository)(nil)
	_ repository.TreatmentPlanRepository = (*TreatmentPlanRepository)(nil)
	_ repository.AttendanceRepository    = (*AttendanceRepository)(nil)
	_ repository.AuditLogRepository      = (*AuditLogRepository)(nil)
)

// --- AppointmentRepository ---

type AppointmentRepository struct {
	CreateFunc                       func(db *gorm.DB, appointment *entity.Appointment) error
	UpdateFunc                       func(db *gorm.DB, appointment *entity.Appointment) error
	FindByIDFunc                     func(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error)
	FindByDentistAndDayFunc          func(db *gorm.DB, clinicID, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error)
	FindBlockingByDentistInRangeFunc func(db *gorm.DB, clinicID, dentistID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error)
	CancelFunc                       func(db *gorm.DB, clinicID, id uuid.UUID) (int64, error)

	CreateCalls       int32
	UpdateCalls       int32
	FindBlockingCalls int32
}

func (m *AppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	atomic.AddInt32(&m.CreateCalls, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(db, appointment)
	}
	return nil
}

func (m *AppointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	atomic.AddInt32(&m.UpdateCalls, 1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, appointment)
	}
	return nil
}

func (m *AppointmentRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, clinicID, id)
	}
	return nil, nil
}

func (m *AppointmentRepository) FindByDentistAndDay(db *gorm.DB, clinicID, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error) {
	if m.FindByDentistAndDayFunc != nil {
		return m.FindByDentistAndDayFunc(db, clinicID, dentistID, dayStart, dayEnd)
	}
	return nil, nil
}

func (m *AppointmentRepository) FindBlockingByDentistInRange(db *gorm.DB, clinicID, dentistID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	atomic.AddInt32(&m.FindBlockingCalls, 1)
	if m.FindBlockingByDentistInRangeFunc != nil {
		return m.FindBlockingByDentistInRangeFunc(db, clinicID, dentistID, from, to, excludeID)
	}
	return nil, nil
}

func (m *AppointmentRepository) Cancel(db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(db, clinicID, id)
	}
	return 1, nil
}

// --- Lookups ---

type DentistRepository struct {
	FindByIDFunc func(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Dentist, error)
}

func (m *DentistRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Dentist, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, clinicID, id)
	}
	return nil, nil
}

type PatientRepository struct {
	FindByIDFunc func(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error)
}

func (m *PatientRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Patient, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, clinicID, id)
	}
	return nil, nil
}

type ProcedureRepository struct {
	FindByIDFunc func(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Procedure, error)
}

func (m *ProcedureRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Procedure, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, clinicID, id)
	}
	return nil, nil
}

// --- Financial sources ---

type TreatmentPlanRepository struct {
	FindPaymentsForDentistFunc func(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Payment, error)
	FindApprovedPatientIDsFunc func(db *gorm.DB, clinicID, dentistID uuid.UUID, patientIDs []uuid.UUID) ([]uuid.UUID, error)
}

func (m *TreatmentPlanRepository) FindPaymentsForDentist(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Payment, error) {
	if m.FindPaymentsForDentistFunc != nil {
		return m.FindPaymentsForDentistFunc(db, clinicID, dentistID, filter)
	}
	return nil, nil
}

func (m *TreatmentPlanRepository) FindApprovedPatientIDs(db *gorm.DB, clinicID, dentistID uuid.UUID, patientIDs []uuid.UUID) ([]uuid.UUID, error) {
	if m.FindApprovedPatientIDsFunc != nil {
		return m.FindApprovedPatientIDsFunc(db, clinicID, dentistID, patientIDs)
	}
	return nil, nil
}

type AttendanceRepository struct {
	FindDoneForDentistFunc func(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Attendance, error)
}

func (m *AttendanceRepository) FindDoneForDentist(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Attendance, error) {
	if m.FindDoneForDentistFunc != nil {
		return m.FindDoneForDentistFunc(db, clinicID, dentistID, filter)
	}
	return nil, nil
}

// --- AuditLogRepository ---

type AuditLogRepository struct {
	CreateFunc   func(db *gorm.DB, log *entity.AuditLog) error
	FindAllFunc  func(db *gorm.DB, clinicID uuid.UUID) ([]entity.AuditLog, error)
	FindByIDFunc func(db *gorm.DB, clinicID uuid.UUID, id int64) (*entity.AuditLog, error)

	Created []entity.AuditLog
}

func (m *AuditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	m.Created = append(m.Created, *log)
	if m.CreateFunc != nil {
		return m.CreateFunc(db, log)
	}
	return nil
}

func (m *AuditLogRepository) FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.AuditLog, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(db, clinicID)
	}
	return nil, nil
}

func (m *AuditLogRepository) FindByID(db *gorm.DB, clinicID uuid.UUID, id int64) (*entity.AuditLog, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, clinicID, id)
	}
	return nil, nil
}
