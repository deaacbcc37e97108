package repository

import (
	"time"

	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	Update(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error)
	// FindByDentistAndDay returns every appointment starting in [dayStart, dayEnd), any status.
	FindByDentistAndDay(db *gorm.DB, clinicID, dentistID uuid.UUID, dayStart, dayEnd time.Time) ([]entity.Appointment, error)
	// FindBlockingByDentistInRange returns slot-blocking appointments starting in [from, to),
	// skipping excludeID when given.
	FindBlockingByDentistInRange(db *gorm.DB, clinicID, dentistID uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]entity.Appointment, error)
	// Cancel sets CANCELED only if the appointment is not canceled yet.
	// Returns affected rows: 1 = canceled now, 0 = already canceled or missing.
	Cancel(db *gorm.DB, clinicID, id uuid.UUID) (int64, error)
}
