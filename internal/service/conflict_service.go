package service

import (
	"context"
	"time"

	"go-dental-clinic/internal/domain/apperror"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConflictQuery describes a candidate booking slot.
type ConflictQuery struct {
	ClinicID             uuid.UUID
	DentistID            uuid.UUID
	Start                time.Time
	DurationMinutes      int
	ExcludeAppointmentID *uuid.UUID
}

// End returns the exclusive end of the candidate interval.
func (q ConflictQuery) End() time.Time {
	return q.Start.Add(time.Duration(q.DurationMinutes) * time.Minute)
}

// ConflictService decides whether a candidate slot overlaps an existing
// booking of the same dentist.
//
// The check is optimistic: two concurrent writers can both pass it. The
// authoritative guard is the appointments_no_overlap exclusion constraint in
// PostgreSQL, which the appointment repository maps back to a scheduling
// conflict. Do not rely on this check alone to prevent double booking.
type ConflictService interface {
	HasConflict(ctx context.Context, db *gorm.DB, q ConflictQuery) (bool, error)
	// DayBounds returns local midnight to midnight around t in the clinic zone.
	DayBounds(t time.Time) (time.Time, time.Time)
}

type conflictService struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	location        *time.Location
}

func NewConflictService(log *logrus.Logger, appointmentRepo repository.AppointmentRepository, location *time.Location) ConflictService {
	if location == nil {
		location = time.UTC
	}
	return &conflictService{
		log:             log,
		appointmentRepo: appointmentRepo,
		location:        location,
	}
}

// HasConflict loads the dentist's slot-blocking appointments for the
// candidate's calendar day and reports the first overlap.
//
// The read window is widened by the longest allowed appointment on both
// sides so bookings that cross midnight are compared as well; the decision
// itself is always the half-open interval test.
func (s *conflictService) HasConflict(ctx context.Context, db *gorm.DB, q ConflictQuery) (bool, error) {
	dayStart, dayEnd := s.DayBounds(q.Start)
	maxSpan := time.Duration(entity.MaxAppointmentDuration) * time.Minute
	from := dayStart.Add(-maxSpan)
	to := dayEnd
	if end := q.End(); end.After(to) {
		to = end
	}

	existing, err := s.appointmentRepo.FindBlockingByDentistInRange(withContext(db, ctx), q.ClinicID, q.DentistID, from, to, q.ExcludeAppointmentID)
	if err != nil {
		s.log.Warnf("Failed to load appointments for dentist %s: %+v", q.DentistID, err)
		return false, apperror.Wrap("load dentist appointments", err)
	}

	if hit := FirstOverlap(q, existing); hit != nil {
		s.log.Debugf("Slot %s+%dm for dentist %s overlaps appointment %s", q.Start.Format(time.RFC3339), q.DurationMinutes, q.DentistID, hit.ID)
		return true, nil
	}
	return false, nil
}

func (s *conflictService) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1)
}

// FirstOverlap returns the first appointment in existing that blocks the
// candidate slot, or nil. Non-blocking statuses and the excluded id are
// skipped.
func FirstOverlap(q ConflictQuery, existing []entity.Appointment) *entity.Appointment {
	candEnd := q.End()
	for i := range existing {
		appt := &existing[i]
		if !appt.Status.BlocksSlot() {
			continue
		}
		if q.ExcludeAppointmentID != nil && appt.ID == *q.ExcludeAppointmentID {
			continue
		}
		if Overlaps(q.Start, candEnd, appt.StartAt, appt.End()) {
			return appt
		}
	}
	return nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
