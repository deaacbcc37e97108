package repository

import (
	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	// FindDoneForDentist loads finalized attendances with patient and
	// procedure lines preloaded.
	FindDoneForDentist(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Attendance, error)
}
