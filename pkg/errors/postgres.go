package errors

import (
	stdErrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE classes the store maps onto API codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// PGCode extracts the SQLSTATE from either driver's error type.
func PGCode(err error) string {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// FromStore classifies a storage failure. Constraint violations become
// client errors; anything else is a dependency failure.
func FromStore(err error, message string) *Error {
	switch PGCode(err) {
	case pgUniqueViolation:
		return Wrap(CodeConflict, err, message)
	case pgForeignKeyViolation:
		return Wrap(CodeNotFound, err, message)
	case pgCheckViolation, pgNotNullViolation:
		return Wrap(CodeValidation, err, message)
	}
	return Wrap(CodeDependency, err, message)
}
