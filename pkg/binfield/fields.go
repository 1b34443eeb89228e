package binfield

import (
	"encoding/binary"
	"fmt"
	"math"
)

// --- Fixed-width primitives ---

// Bytes is a fixed-width run of raw bytes.
type Bytes struct {
	validating
	length int
}

// NewBytes builds a raw byte field of exactly length bytes.
func NewBytes(length int) *Bytes {
	return &Bytes{length: length}
}

// WithValidator attaches a validation hook and returns the field.
func (f *Bytes) WithValidator(v Validator) *Bytes {
	f.validator = v
	return f
}

func (f *Bytes) Decode(_ Record, data []byte) (any, int, error) {
	if len(data) < f.length {
		return nil, 0, fmt.Errorf("need %d bytes, have %d: %w", f.length, len(data), ErrOutOfBounds)
	}
	// Copy so the decoded value never aliases the caller's buffer.
	return append([]byte(nil), data[:f.length]...), f.length, nil
}

func (f *Bytes) Encode(value any) ([]byte, error) {
	b, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to bytes", value)
	}
	if len(b) != f.length {
		return nil, fmt.Errorf("length mismatch: value is %d bytes, field holds %d: %w",
			len(b), f.length, ErrIntegerOverflow)
	}
	return b, nil
}

// Uint16 is a little-endian unsigned 16-bit integer.
type Uint16 struct {
	validating
}

// NewUint16 builds a little-endian uint16 field.
func NewUint16() *Uint16 {
	return &Uint16{}
}

// WithValidator attaches a validation hook and returns the field.
func (f *Uint16) WithValidator(v Validator) *Uint16 {
	f.validator = v
	return f
}

func (f *Uint16) Decode(_ Record, data []byte) (any, int, error) {
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("uint16: need 2 bytes, have %d: %w", len(data), ErrOutOfBounds)
	}
	return binary.LittleEndian.Uint16(data), 2, nil
}

func (f *Uint16) Encode(value any) ([]byte, error) {
	u, err := toUint(value)
	if err != nil {
		return nil, fmt.Errorf("uint16: %w", err)
	}
	if u > math.MaxUint16 {
		return nil, fmt.Errorf("uint16: value %d out of range: %w", u, ErrIntegerOverflow)
	}
	return binary.LittleEndian.AppendUint16(nil, uint16(u)), nil
}

// Uint32 is a little-endian unsigned 32-bit integer.
type Uint32 struct {
	validating
}

// NewUint32 builds a little-endian uint32 field.
func NewUint32() *Uint32 {
	return &Uint32{}
}

// WithValidator attaches a validation hook and returns the field.
func (f *Uint32) WithValidator(v Validator) *Uint32 {
	f.validator = v
	return f
}

func (f *Uint32) Decode(_ Record, data []byte) (any, int, error) {
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("uint32: need 4 bytes, have %d: %w", len(data), ErrOutOfBounds)
	}
	return binary.LittleEndian.Uint32(data), 4, nil
}

func (f *Uint32) Encode(value any) ([]byte, error) {
	u, err := toUint(value)
	if err != nil {
		return nil, fmt.Errorf("uint32: %w", err)
	}
	if u > math.MaxUint32 {
		return nil, fmt.Errorf("uint32: value %d out of range: %w", u, ErrIntegerOverflow)
	}
	return binary.LittleEndian.AppendUint32(nil, uint32(u)), nil
}
