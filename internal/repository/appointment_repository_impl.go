package repository

import (
	"errors"
	"time"

	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOverlapRejected is returned when the storage-level overlap constraint
// refuses a write that the application check let through.
var ErrOverlapRejected = apperror.New(apperror.ErrSchedulingConflict, "dentist already has an appointment in this time interval")

// ErrAppointmentReferenceMissing is returned when a write points at a
// dentist, patient or procedure row that does not exist.
var ErrAppointmentReferenceMissing = apperror.New(apperror.ErrNotFound, "appointment references a missing dentist, patient or procedure")

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return translateAppointmentWriteError(db.Omit("Dentist", "Patient").Create(appointment).Error)
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return translateAppointmentWriteError(db.Omit("Dentist", "Patient").Save(appointment).Error)
}

func (r *appointmentRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ? AND clinic_id = ?", id, clinicID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByDentistAndDay(db *gorm.DB, clinicID, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("clinic_id = ? AND dentist_id = ?", clinicID, dentistID).
		Where("start_at >= ? AND start_at < ?", dayStart, dayEnd).
		Order("start_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBlockingByDentistInRange(db *gorm.DB, clinicID, dentistID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Select("id", "dentist_id", "start_at", "duration_minutes", "status").
		Where("clinic_id = ? AND dentist_id = ?", clinicID, dentistID).
		Where("status IN ?", entity.BlockingAppointmentStatuses()).
		Where("start_at >= ? AND start_at < ?", from, to)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Order("start_at ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// Cancel atomically cancels an appointment ONLY if it's not already canceled.
// Returns affected rows: 1 = success, 0 = already canceled (prevents double-cancel race).
func (r *appointmentRepository) Cancel(db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND clinic_id = ? AND status <> ?", id, clinicID, entity.AppointmentStatusCanceled).
		UpdateColumns(map[string]interface{}{
			"status":     entity.AppointmentStatusCanceled,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func translateAppointmentWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isExclusionError(err, appointmentOverlapConstraint):
		return ErrOverlapRejected
	case isForeignKeyError(err, "appointments"):
		return ErrAppointmentReferenceMissing
	}
	return err
}
