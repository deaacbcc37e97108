package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MinAppointmentDuration = 15
	MaxAppointmentDuration = 480
)

// AppointmentStatus is the closed set of appointment states. It is stored
// and serialised by name.
type AppointmentStatus uint8

const (
	AppointmentStatusScheduled AppointmentStatus = iota + 1
	AppointmentStatusConfirmed
	AppointmentStatusCanceled
	AppointmentStatusRescheduled
	AppointmentStatusNoShow
	AppointmentStatusDone
)

var appointmentStatusNames = map[AppointmentStatus]string{
	AppointmentStatusScheduled:   "SCHEDULED",
	AppointmentStatusConfirmed:   "CONFIRMED",
	AppointmentStatusCanceled:    "CANCELED",
	AppointmentStatusRescheduled: "RESCHEDULED",
	AppointmentStatusNoShow:      "NO_SHOW",
	AppointmentStatusDone:        "DONE",
}

var ErrInvalidAppointmentStatus = errors.New("invalid appointment status")

// ParseAppointmentStatus converts a status name into its enum value.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	for status, name := range appointmentStatusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAppointmentStatus, s)
}

func (s AppointmentStatus) String() string {
	if name, ok := appointmentStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AppointmentStatus(%d)", uint8(s))
}

func (s AppointmentStatus) Valid() bool {
	_, ok := appointmentStatusNames[s]
	return ok
}

// BlocksSlot reports whether an appointment in this status occupies its
// time interval. Canceled, no-show and done appointments never conflict.
func (s AppointmentStatus) BlocksSlot() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusRescheduled:
		return true
	}
	return false
}

// BlockingAppointmentStatuses lists the statuses that take part in conflict checks.
func BlockingAppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusRescheduled,
	}
}

func (s AppointmentStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAppointmentStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *AppointmentStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseAppointmentStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer
func (s AppointmentStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAppointmentStatus, uint8(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *AppointmentStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidAppointmentStatus, value)
	}
}

// ProcedureSnapshot is the immutable pricing copy taken when an appointment
// is booked, so later catalog edits never rewrite historical billing.
type ProcedureSnapshot struct {
	Name                 string          `json:"name"`
	BaseValue            decimal.Decimal `json:"baseValue"`
	CommissionPercentage decimal.Decimal `json:"commissionPercentage"`
}

// Value returns json value, implement driver.Valuer interface
func (p ProcedureSnapshot) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan scan value into ProcedureSnapshot, implements sql.Scanner interface
func (p *ProcedureSnapshot) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal procedure snapshot:", value))
	}
	return json.Unmarshal(bytes, p)
}

// Appointment is a dentist booking for a patient.
type Appointment struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DentistID         uuid.UUID          `gorm:"type:uuid;not null;index:idx_appointments_dentist_start" json:"dentist_id"`
	PatientID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	StartAt           time.Time          `gorm:"not null;index:idx_appointments_dentist_start" json:"start_at"`
	DurationMinutes   int                `gorm:"not null" json:"duration_minutes"`
	EndsAt            time.Time          `gorm:"not null" json:"ends_at"`
	Status            AppointmentStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	ProcedureID       *uuid.UUID         `gorm:"type:uuid" json:"procedure_id,omitempty"`
	ProcedureSnapshot *ProcedureSnapshot `gorm:"type:jsonb" json:"procedure_snapshot,omitempty"`
	ProcedureLabel    string             `gorm:"type:varchar(255)" json:"procedure_label,omitempty"`
	Notes             string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Dentist *Dentist `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// BeforeSave keeps ends_at in step with start and duration; the overlap
// exclusion constraint is defined over [start_at, ends_at).
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.EndsAt = a.End()
	return nil
}

// End returns the exclusive end of the appointment interval.
func (a *Appointment) End() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsCanceled checks if appointment is canceled
func (a *Appointment) IsCanceled() bool {
	return a.Status == AppointmentStatusCanceled
}

// Cancel changes appointment status to canceled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCanceled
}

// ValidDuration reports whether minutes is an allowed appointment length.
func ValidDuration(minutes int) bool {
	return minutes >= MinAppointmentDuration && minutes <= MaxAppointmentDuration
}
