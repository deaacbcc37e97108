package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TreatmentPlanStatus represents the approval state of a patient budget
type TreatmentPlanStatus string

const (
	TreatmentPlanStatusDraft    TreatmentPlanStatus = "DRAFT"
	TreatmentPlanStatusApproved TreatmentPlanStatus = "APPROVED"
	TreatmentPlanStatusRejected TreatmentPlanStatus = "REJECTED"
)

// TreatmentPlan is a patient-specific quote composed of line items.
type TreatmentPlan struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DentistID uuid.UUID           `gorm:"type:uuid;not null;index" json:"dentist_id"`
	PatientID uuid.UUID           `gorm:"type:uuid;not null;index" json:"patient_id"`
	Status    TreatmentPlanStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient             `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Items   []TreatmentPlanItem `gorm:"foreignKey:TreatmentPlanID" json:"items,omitempty"`
}

func (TreatmentPlan) TableName() string {
	return "treatment_plans"
}

// TreatmentPlanItem is a priced line of a treatment plan.
type TreatmentPlanItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TreatmentPlanID uuid.UUID       `gorm:"type:uuid;not null;index" json:"treatment_plan_id"`
	ProcedureID     *uuid.UUID      `gorm:"type:uuid" json:"procedure_id,omitempty"`
	Description     string          `gorm:"type:varchar(255)" json:"description,omitempty"`
	UnitValue       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_value"`
	Quantity        int             `gorm:"not null;default:1" json:"quantity"`

	// Relationships
	Procedure *Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
}

func (TreatmentPlanItem) TableName() string {
	return "treatment_plan_items"
}

// Payment settles one or more items of a treatment plan.
// Payments are registered by the billing flow and only read here.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	TreatmentPlanID uuid.UUID       `gorm:"type:uuid;not null;index" json:"treatment_plan_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method          string          `gorm:"type:varchar(30)" json:"method,omitempty"`
	PaidAt          time.Time       `gorm:"not null;index" json:"paid_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	TreatmentPlan TreatmentPlan `gorm:"foreignKey:TreatmentPlanID" json:"treatment_plan,omitempty"`
	Items         []PaymentItem `gorm:"foreignKey:PaymentID" json:"items,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentItem links a payment to the treatment plan item it covers.
type PaymentItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PaymentID           uuid.UUID `gorm:"type:uuid;not null;index" json:"payment_id"`
	TreatmentPlanItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"treatment_plan_item_id"`

	// Relationships
	TreatmentPlanItem TreatmentPlanItem `gorm:"foreignKey:TreatmentPlanItemID" json:"treatment_plan_item,omitempty"`
}

func (PaymentItem) TableName() string {
	return "payment_items"
}
