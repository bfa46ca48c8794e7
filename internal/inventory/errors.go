package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Expected failure kinds. Adapters branch on these with errors.Is instead of
// parsing messages.
var (
	ErrNotFound     = errors.New("item not found")
	ErrDuplicateSKU = errors.New("sku already exists")
	ErrMissingSKU   = errors.New("sku required")
)

// ValidationError reports malformed input, such as a negative quantity or
// price.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
// The driver folds SQLITE_CONSTRAINT_UNIQUE into the error message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
