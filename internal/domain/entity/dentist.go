package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dentist is a clinic professional that can be booked.
// Booking eligibility follows the linked user's active flag.
type Dentist struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID             uuid.UUID           `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID               uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CRO                  string              `gorm:"column:cro;type:varchar(30);not null" json:"cro"`
	Specialty            *string             `gorm:"type:varchar(100)" json:"specialty,omitempty"`
	GeneralCommissionPct decimal.NullDecimal `gorm:"column:general_commission_pct;type:decimal(5,2)" json:"general_commission_pct"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Dentist) TableName() string {
	return "dentists"
}

// IsActive reports whether the dentist's account can take new bookings.
func (d *Dentist) IsActive() bool {
	return d.User.Active()
}
