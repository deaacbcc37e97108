package repository

import (
	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, clinicID uuid.UUID) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, clinicID uuid.UUID, id int64) (*entity.AuditLog, error)
}
