// Package binfield describes fixed binary file layouts as ordered schemas of
// composable field descriptors. A Schema decodes a byte slice into a named
// Record and encodes a Record back to the identical bytes; fields whose size
// lives elsewhere in the file (string lengths, list counts) receive that
// governing value explicitly, either from a sibling field already decoded or
// from an enclosing length prefix. Descriptors hold no decode state, so a
// constructed Schema is safe for concurrent use.
package binfield

import (
	"fmt"
	"math"
)

// Field is the contract implemented by every field descriptor.
type Field interface {
	// Decode reads the field's value from the front of data and reports how
	// many bytes it consumed. rec holds the values already decoded for the
	// current record, letting externally-sized fields look up their
	// governing sibling by name.
	Decode(rec Record, data []byte) (value any, n int, err error)

	// Encode produces the exact wire bytes for value.
	Encode(value any) ([]byte, error)

	// Validate applies the field's optional validation hook to a decoded
	// value. A rejection wraps ErrValidationFailed.
	Validate(value any) error
}

// SizedField is implemented by descriptors that cannot size themselves from
// the wire alone: opaque strings (byte length) and lists (element count).
// An enclosing LengthPrefixed wrapper supplies the size it decodes.
type SizedField interface {
	Field

	// DecodeSized decodes under an externally supplied size: a byte length
	// for strings, an element count for lists.
	DecodeSized(rec Record, data []byte, size int) (any, int, error)

	// SizeOf reports the size Encode would produce for value, in the same
	// unit DecodeSized consumes. LengthPrefixed writes it as the prefix.
	SizeOf(value any) (int, error)
}

// Validator checks a decoded value. Returning a non-nil error rejects the
// value; Validate wraps it with ErrValidationFailed.
type Validator func(value any) error

// validating carries the optional per-field validation hook shared by all
// descriptors.
type validating struct {
	validator Validator
}

func (v validating) Validate(value any) error {
	if v.validator == nil {
		return nil
	}
	if err := v.validator(value); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return nil
}

// NamedField binds a field name to its descriptor inside a Schema.
type NamedField struct {
	Name  string
	Field Field
}

// Named pairs a name with a descriptor for NewSchema.
func Named(name string, f Field) NamedField {
	return NamedField{Name: name, Field: f}
}

// toUint normalizes any Go integer value to uint64. Negative values wrap
// ErrIntegerOverflow; non-integer types are a plain conversion error.
func toUint(value any) (uint64, error) {
	switch v := value.(type) {
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case int8:
		return negCheck(int64(v))
	case int16:
		return negCheck(int64(v))
	case int32:
		return negCheck(int64(v))
	case int64:
		return negCheck(v)
	case int:
		return negCheck(int64(v))
	case float64:
		// JSON numbers arrive as float64.
		if v < 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("cannot convert %v to unsigned integer", v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to unsigned integer", value)
	}
}

func negCheck(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("negative value %d: %w", v, ErrIntegerOverflow)
	}
	return uint64(v), nil
}

// toCount resolves a governing value (a decoded integer) to a non-negative
// int for use as a byte length or element count.
func toCount(value any) (int, error) {
	u, err := toUint(value)
	if err != nil {
		return 0, err
	}
	if u > math.MaxInt {
		return 0, fmt.Errorf("size %d exceeds int range: %w", u, ErrIntegerOverflow)
	}
	return int(u), nil
}
