package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Procedure is a billable catalog item.
type Procedure struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	SpecialtyID   *uuid.UUID      `gorm:"type:uuid" json:"specialty_id,omitempty"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	BaseValue     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_value"`
	CommissionPct decimal.Decimal `gorm:"column:commission_pct;type:decimal(5,2);not null;default:0" json:"commission_pct"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Procedure) TableName() string {
	return "procedures"
}

// Snapshot captures the pricing that applies at booking time.
func (p *Procedure) Snapshot() *ProcedureSnapshot {
	return &ProcedureSnapshot{
		Name:                 p.Name,
		BaseValue:            p.BaseValue,
		CommissionPercentage: p.CommissionPct,
	}
}

// CommissionRate returns the procedure rate as an optional value for the
// commission resolver.
func (p *Procedure) CommissionRate() decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.CommissionPct)
}
