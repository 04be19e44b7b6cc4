// Package pgsql implements the repository ports on PostgreSQL via pgx.
package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolationCode is the PostgreSQL error code for unique constraint
// violations, including the partial unique indexes guarding single-active
// invariants.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fromNullable maps a NULL column back to the empty string.
func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
