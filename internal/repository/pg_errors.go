package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// appointmentOverlapConstraint is the exclusion constraint that rejects two
// slot-blocking appointments of one dentist over intersecting intervals.
const appointmentOverlapConstraint = "appointments_no_overlap"

func isPgError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == code && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isExclusionError checks if the error is a PostgreSQL exclusion violation
// on the specified constraint
func isExclusionError(err error, constraintName string) bool {
	return isPgError(err, pgExclusionViolation, constraintName)
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	return isPgError(err, pgForeignKeyViolation, constraintName)
}
