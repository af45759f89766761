package convert

import (
	"errors"
	"fmt"

	"github.com/funvibe/interop/internal/text"
	"github.com/funvibe/interop/internal/value"
)

// ErrUnsupportedCapability means a foreign handle does not expose the read
// capability a coercion needs.
var ErrUnsupportedCapability = errors.New("unsupported capability")

// ErrMalformedText means a text value was not exactly one character long.
var ErrMalformedText = text.ErrMalformedText

// CoercionError is the only error a coercion produces. It is terminal:
// nothing in this package retries after returning one.
type CoercionError struct {
	// Value is the offending input, unchanged.
	Value value.Value
	// Target names the coercion that was attempted (e.g. "i1").
	Target string
	// Message is the fixed human-readable description.
	Message string
	// Cause wraps ErrUnsupportedCapability or ErrMalformedText.
	Cause error
}

func (e *CoercionError) Error() string { return e.Message }

func (e *CoercionError) Unwrap() error { return e.Cause }

// Detail renders the message together with the value and the cause.
func (e *CoercionError) Detail() string {
	return fmt.Sprintf("%s (to %s, value %s): %v", e.Message, e.Target, e.Value.Inspect(), e.Cause)
}

func (t *Table[T]) unsupported(v value.Value, err error) *CoercionError {
	cause := ErrUnsupportedCapability
	if err != nil {
		cause = fmt.Errorf("%w: %w", ErrUnsupportedCapability, err)
	}
	return &CoercionError{
		Value:   v,
		Target:  t.Name,
		Message: "foreign object can't be converted to " + t.Description,
		Cause:   cause,
	}
}

func (t *Table[T]) malformed(v value.Value, err error) *CoercionError {
	return &CoercionError{
		Value:   v,
		Target:  t.Name,
		Message: "text must be a single character to be converted to " + t.Description,
		Cause:   err,
	}
}
