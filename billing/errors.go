// Package billing holds the settlement core: invoice assembly, payment
// allocation, item splitting and the shared-space session lifecycle. It
// operates on in-memory records only; persistence and authorization belong
// to the callers. Every operation is all-or-nothing: inputs are validated
// fully before any mutation is applied.
package billing

import "fmt"

// ValidationError reports malformed numeric input: negative amounts where
// disallowed, a zero total tender, a discount at or above the total.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// PreconditionError reports an operation invoked against a subject in the
// wrong state, e.g. closing an already completed session or linking a
// session twice.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition: " + e.Reason
}

// NotFoundError reports a reference into the supplied snapshot that does
// not resolve, e.g. a bad item index.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func preconditionf(format string, args ...interface{}) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}
