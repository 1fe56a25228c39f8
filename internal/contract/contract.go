// Package contract defines the single error kind raised by sqlsafe when a
// builder contract is broken.
//
// A Violation is raised synchronously at the earliest point the rule can be
// checked: identifier construction, limit/offset assignment, or Build. There
// are no error codes; the message names the rule that failed.
package contract

import (
	"errors"
	"fmt"
)

// ErrViolation is the sentinel matched by every Violation via errors.Is.
var ErrViolation = errors.New("builder contract violation")

// Violation reports a broken builder contract.
type Violation struct {
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", ErrViolation, v.Message)
}

// Is reports whether target is ErrViolation.
func (v *Violation) Is(target error) bool {
	return target == ErrViolation
}

// Errorf creates a Violation with a formatted message.
func Errorf(format string, args ...any) *Violation {
	return &Violation{Message: fmt.Sprintf(format, args...)}
}

// IsViolation returns true if err is (or wraps) a Violation.
func IsViolation(err error) bool {
	return errors.Is(err, ErrViolation)
}
