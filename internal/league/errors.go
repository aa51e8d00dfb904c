package league

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid input data. It is raised at the boundary
// where the bad data entered (construction or scheduling time), never
// deferred into simulation, and never silently corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// State errors surface illegal season operations directly to the caller.
// The core never attempts silent repair.
var (
	ErrSeasonCompleted = errors.New("season already completed")
	ErrNoFixtures      = errors.New("no fixtures remaining")
)
