package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation, optionally on a specific constraint. The engine's invariants
// live in unique indexes, so several services reinterpret 23505 into domain
// outcomes instead of surfacing it.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
