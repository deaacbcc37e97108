package repository

import (
	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcedureRepository interface {
	FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Procedure, error)
}
