package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique
// constraint violation. When constraintName is provided, the helper looks
// for the Postgres constraint text in the error message. SQLite reports
// duplicates by table.column rather than constraint name, so its message is
// matched as a whole.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return true
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
