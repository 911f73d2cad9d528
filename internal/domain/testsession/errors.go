package testsession

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a session that is absent or owned by another user.
// The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("test session not found")

// ErrUnknownIndicator is the catalog gateway's contract for an unresolved
// slug. The reconciler turns it into an InvalidInputError naming the slug.
var ErrUnknownIndicator = errors.New("unknown indicator")

// ErrInconsistentRead reports a write that succeeded but whose immediate
// re-read found nothing. Fatal, never retried.
var ErrInconsistentRead = errors.New("test session missing after write")

// InvalidInputError is a caller mistake: malformed date, duplicate or
// unknown indicator, non-finite value. Carries a human-readable reason.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

func invalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iv *InvalidInputError
	return errors.As(err, &iv)
}
