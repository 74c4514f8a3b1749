// Package domainerr defines the error kinds shared by the order-capture domain.
//
// Every value-object constructor reports invariant violations as an
// *InvalidValueError and every aggregate operation refused by its current state
// reports an *InvalidOperationError. Both match their sentinel through
// errors.Is so callers can branch on the kind without caring about details.
package domainerr

import (
	"github.com/go-faster/errors"
)

var (
	// ErrInvalidValue is matched by every *InvalidValueError.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidOperation is matched by every *InvalidOperationError.
	ErrInvalidOperation = errors.New("invalid operation")
)

// InvalidValueError indicates a value was constructed with data violating its
// invariant.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return e.Reason
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// InvalidOperationError indicates an operation was attempted in a state that
// forbids it.
type InvalidOperationError struct {
	Op     string
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return e.Reason
}

// Is reports whether target is ErrInvalidOperation.
func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// InvalidValue returns an *InvalidValueError for field.
func InvalidValue(field, reason string) error {
	return &InvalidValueError{Field: field, Reason: reason}
}

// InvalidOperation returns an *InvalidOperationError for op.
func InvalidOperation(op, reason string) error {
	return &InvalidOperationError{Op: op, Reason: reason}
}
