package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether the storage error is a unique constraint
// violation. GORM translates driver errors when TranslateError is enabled;
// the string checks cover sqlite and postgres drivers that don't.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
