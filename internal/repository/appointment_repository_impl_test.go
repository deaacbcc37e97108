package repository

import (
	"errors"
	"fmt"
	"testing"

	"go-dental-clinic/internal/domain/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateAppointmentWriteError(t *testing.T) {
	overlap := &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}
	missingFK := &pgconn.PgError{Code: "23503", ConstraintName: "fk_appointments_patient"}
	other := errors.New("connection refused")

	assert.NoError(t, translateAppointmentWriteError(nil))

	err := translateAppointmentWriteError(fmt.Errorf("insert: %w", overlap))
	assert.ErrorIs(t, err, ErrOverlapRejected)
	assert.ErrorIs(t, err, apperror.ErrSchedulingConflict)

	err = translateAppointmentWriteError(missingFK)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Same(t, other, translateAppointmentWriteError(other))
}

func TestIsPgError_MatchesCodeAndConstraint(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "uni_users_email"}

	assert.True(t, isPgError(unique, pgUniqueViolation, "email"))
	assert.False(t, isPgError(unique, pgUniqueViolation, "cro"))
	assert.False(t, isExclusionError(unique, appointmentOverlapConstraint))
	assert.False(t, isForeignKeyError(errors.New("plain"), "appointments"))
}
