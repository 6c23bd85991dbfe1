// Package repository wraps all SQL used throughout the API. Each aggregate
// gets one repository over a shared pgx pool; errors are wrapped with enough
// context to locate the failing statement.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound reports a row that does not exist. Handlers map it to 404.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict reports a uniqueness violation on a caller-supplied value,
// typically a duplicate slug. Handlers map it to 400.
var ErrConflict = errors.New("repository: conflict")

func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// uniqueViolation reports the Postgres unique_violation error class.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
