package repository

import (
	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type attendanceRepository struct{}

func NewAttendanceRepository() domainRepo.AttendanceRepository {
	return &attendanceRepository{}
}

func (r *attendanceRepository) FindDoneForDentist(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Attendance, error) {
	var attendances []entity.Attendance
	query := db.Where("clinic_id = ? AND dentist_id = ? AND status = ?", clinicID, dentistID, entity.AttendanceStatusDone)

	if filter != nil {
		if filter.DateFrom != nil {
			query = query.Where("attended_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("attended_at < ?", *filter.DateTo)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
	}

	err := query.
		Preload("Patient").
		Preload("Procedures.Procedure").
		Order("attended_at DESC").
		Find(&attendances).Error
	if err != nil {
		return nil, err
	}
	return attendances, nil
}
