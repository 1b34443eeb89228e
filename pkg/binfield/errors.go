package binfield

import "errors"

// Error kinds reported by decode, encode and validation. Callers match them
// with errors.Is; the wrapped message carries the field name and counts.
var (
	// ErrOutOfBounds means fewer bytes remain than the field requires.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrMalformedInput means the input (or, on encode, the value) is
	// structurally invalid, such as a z-string with no terminator.
	ErrMalformedInput = errors.New("malformed input")

	// ErrValidationFailed means a field validator rejected a decoded value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrIntegerOverflow means a value does not fit its wire representation:
	// an out-of-range integer, a length prefix too narrow for the payload, or
	// a fixed-width field handed a value of the wrong size.
	ErrIntegerOverflow = errors.New("integer overflow")
)
