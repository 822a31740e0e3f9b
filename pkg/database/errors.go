package database

import "strings"

// IsUniqueViolation reports whether err is a unique constraint violation from
// either supported driver. Services treat this as the authoritative conflict
// signal: the application-level existence checks are only a fast path, and a
// concurrent duplicate insert surfaces here.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "SQLSTATE=23505") || // pgdriver
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}
