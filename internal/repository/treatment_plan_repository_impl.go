package repository

import (
	"go-dental-clinic/internal/domain/entity"
	domainRepo "go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type treatmentPlanRepository struct{}

func NewTreatmentPlanRepository() domainRepo.TreatmentPlanRepository {
	return &treatmentPlanRepository{}
}

// FindPaymentsForDentist returns payments on the dentist's plans.
// Supports optional filters: paid-at range and patient.
func (r *treatmentPlanRepository) FindPaymentsForDentist(db *gorm.DB, clinicID, dentistID uuid.UUID, filter *entity.FinancialFilter) ([]entity.Payment, error) {
	var payments []entity.Payment
	query := db.
		Joins("JOIN treatment_plans ON treatment_plans.id = payments.treatment_plan_id").
		Where("payments.clinic_id = ? AND treatment_plans.dentist_id = ?", clinicID, dentistID)

	if filter != nil {
		if filter.DateFrom != nil {
			query = query.Where("payments.paid_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("payments.paid_at < ?", *filter.DateTo)
		}
		if filter.PatientID != nil {
			query = query.Where("treatment_plans.patient_id = ?", *filter.PatientID)
		}
	}

	err := query.
		Preload("TreatmentPlan.Patient").
		Preload("Items.TreatmentPlanItem.Procedure").
		Order("payments.paid_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *treatmentPlanRepository) FindApprovedPatientIDs(db *gorm.DB, clinicID, dentistID uuid.UUID, patientIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := db.Model(&entity.TreatmentPlan{}).
		Distinct("patient_id").
		Where("clinic_id = ? AND dentist_id = ? AND status = ?", clinicID, dentistID, entity.TreatmentPlanStatusApproved).
		Where("patient_id IN ?", patientIDs).
		Pluck("patient_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
