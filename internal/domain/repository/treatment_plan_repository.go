package repository

import (
	"go-dental-clinic/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TreatmentPlanRepository interface {
	// FindPaymentsForDentist loads payments on plans owned by the dentist with
	// plan, patient, paid items and their procedures preloaded.
	FindPaymentsForDentist(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Payment, error)
	// FindApprovedPatientIDs returns the subset of patientIDs that have an
	// approved plan with the dentist.
	FindApprovedPatientIDs(db *gorm.DB, clinicID, dentistID uuid.UUID, patientIDs []uuid.UUID) ([]uuid.UUID, error)
}
