package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by repositories when a keyed lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an insert or update violates a unique constraint.
var ErrConflict = errors.New("record already exists")

// ErrMissingReference is returned when a row points at a parent that does
// not exist (e.g. history for an unknown subject).
var ErrMissingReference = errors.New("referenced record does not exist")

// Postgres SQLSTATE codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Classify maps driver errors onto the package sentinels. Other errors are
// returned unchanged so callers can treat them as storage failures.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrConflict
		case foreignKeyViolation:
			return ErrMissingReference
		}
	}
	return err
}
