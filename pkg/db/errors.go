package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Postgres errors are matched by SQLSTATE; the sqlite driver used in tests
// only exposes message text. When constraintName is given the violated
// constraint must match it.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		// sqlite names the columns, not the constraint.
		return true
	}
	return strings.Contains(msg, "duplicate key value") &&
		(constraintName == "" || strings.Contains(msg, constraintName))
}
