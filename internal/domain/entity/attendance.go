package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceStatus represents the status of a clinical visit
type AttendanceStatus string

const (
	AttendanceStatusInProgress AttendanceStatus = "IN_PROGRESS"
	AttendanceStatusDone       AttendanceStatus = "DONE"
	AttendanceStatusCanceled   AttendanceStatus = "CANCELED"
)

// Attendance is a realized visit recording the procedures actually performed.
// It is written by the clinical records flow and only read here.
type Attendance struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DentistID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"dentist_id"`
	PatientID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentID *uuid.UUID       `gorm:"type:uuid" json:"appointment_id,omitempty"`
	Status        AttendanceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AttendedAt    time.Time        `gorm:"not null;index" json:"attended_at"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient    Patient               `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Procedures []AttendanceProcedure `gorm:"foreignKey:AttendanceID" json:"procedures,omitempty"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// AttendanceProcedure is one performed procedure line of an attendance.
// Price is optional; the catalog base value applies when it is absent.
type AttendanceProcedure struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AttendanceID uuid.UUID           `gorm:"type:uuid;not null;index" json:"attendance_id"`
	ProcedureID  *uuid.UUID          `gorm:"type:uuid" json:"procedure_id,omitempty"`
	Description  string              `gorm:"type:varchar(255)" json:"description,omitempty"`
	Price        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price"`
	Quantity     int                 `gorm:"not null;default:1" json:"quantity"`

	// Relationships
	Procedure *Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
}

func (AttendanceProcedure) TableName() string {
	return "attendance_procedures"
}
