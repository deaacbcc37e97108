package repository

import (
	"errors"

	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dentistRepository struct{}

func NewDentistRepository() domainRepo.DentistRepository {
	return &dentistRepository{}
}

func (r *dentistRepository) FindByID(db *gorm.DB, clinicID, id uuid.UUID) (*entity.Dentist, error) {
	var dentist entity.Dentist
	err := db.Preload("User").Where("id = ? AND clinic_id = ?", id, clinicID).First(&dentist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dentist, nil
}
