package repository

import (
	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DentistRepository interface {
	// FindByID returns the dentist with its user preloaded, or nil when it is
	// absent from the clinic.
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Dentist, error)
}
