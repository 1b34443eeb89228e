package binfield

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
)

// --- Text fields ---

// StringZ is NUL-terminated text. Decode scans to the first 0x00 and
// consumes the run plus its terminator.
type StringZ struct {
	validating
	enc encoding.Encoding
}

// NewStringZ builds a NUL-terminated text field read through enc.
func NewStringZ(enc encoding.Encoding) *StringZ {
	return &StringZ{enc: enc}
}

// WithValidator attaches a validation hook and returns the field.
func (f *StringZ) WithValidator(v Validator) *StringZ {
	f.validator = v
	return f
}

func (f *StringZ) Decode(_ Record, data []byte) (any, int, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return nil, 0, fmt.Errorf("unterminated string: %w", ErrMalformedInput)
	}
	s, err := decodeText(data[:i], f.enc)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding text: %w", err)
	}
	return s, i + 1, nil
}

func (f *StringZ) Encode(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to string", value)
	}
	b, err := encodeText(s, f.enc)
	if err != nil {
		return nil, fmt.Errorf("encoding text %q: %w", s, err)
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return nil, fmt.Errorf("text %q contains NUL: %w", s, ErrMalformedInput)
	}
	return append(b, 0), nil
}

// String is opaque text whose byte length is governed externally: fixed at
// construction, bound to a sibling field with WithLengthFrom, or supplied by
// an enclosing LengthPrefixed wrapper.
type String struct {
	validating
	enc        encoding.Encoding
	length     int    // fixed byte length; -1 when ungoverned
	lengthFrom string // sibling field holding the byte length
}

// NewString builds an opaque text field with no length of its own; it must
// be wrapped in LengthPrefixed or bound with WithLengthFrom before use.
func NewString(enc encoding.Encoding) *String {
	return &String{enc: enc, length: -1}
}

// NewFixedString builds an opaque text field of exactly length wire bytes.
func NewFixedString(length int, enc encoding.Encoding) *String {
	return &String{enc: enc, length: length}
}

// WithLengthFrom binds the field's byte length to a previously decoded
// sibling and returns the field.
func (f *String) WithLengthFrom(name string) *String {
	f.lengthFrom = name
	return f
}

// WithValidator attaches a validation hook and returns the field.
func (f *String) WithValidator(v Validator) *String {
	f.validator = v
	return f
}

func (f *String) Decode(rec Record, data []byte) (any, int, error) {
	switch {
	case f.lengthFrom != "":
		gov, ok := rec[f.lengthFrom]
		if !ok {
			return nil, 0, fmt.Errorf("governing field '%s' not decoded yet", f.lengthFrom)
		}
		n, err := toCount(gov)
		if err != nil {
			return nil, 0, fmt.Errorf("governing field '%s': %w", f.lengthFrom, err)
		}
		return f.DecodeSized(rec, data, n)
	case f.length >= 0:
		return f.DecodeSized(rec, data, f.length)
	default:
		return nil, 0, fmt.Errorf("string has no length: use NewFixedString, WithLengthFrom or LengthPrefixed")
	}
}

func (f *String) DecodeSized(_ Record, data []byte, size int) (any, int, error) {
	if size < 0 {
		return nil, 0, fmt.Errorf("negative length %d: %w", size, ErrMalformedInput)
	}
	if len(data) < size {
		return nil, 0, fmt.Errorf("need %d bytes, have %d: %w", size, len(data), ErrOutOfBounds)
	}
	s, err := decodeText(data[:size], f.enc)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding text: %w", err)
	}
	return s, size, nil
}

func (f *String) Encode(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to string", value)
	}
	b, err := encodeText(s, f.enc)
	if err != nil {
		return nil, fmt.Errorf("encoding text %q: %w", s, err)
	}
	if f.length >= 0 && len(b) != f.length {
		return nil, fmt.Errorf("length mismatch: %q encodes to %d bytes, field holds %d: %w",
			s, len(b), f.length, ErrIntegerOverflow)
	}
	return b, nil
}

func (f *String) SizeOf(value any) (int, error) {
	s, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("cannot convert %T to string", value)
	}
	b, err := encodeText(s, f.enc)
	if err != nil {
		return 0, fmt.Errorf("encoding text %q: %w", s, err)
	}
	return len(b), nil
}

// ReversedString is fixed-length text stored byte-reversed on the wire.
// The reversal happens on raw wire bytes, before text decoding and after
// text encoding, so the field round-trips regardless of the encoding.
// Locale codes in the document header use this ("enUS" is stored as "SUne").
type ReversedString struct {
	validating
	enc    encoding.Encoding
	length int
}

// NewReversedString builds a byte-reversed text field of exactly length
// wire bytes.
func NewReversedString(length int, enc encoding.Encoding) *ReversedString {
	return &ReversedString{enc: enc, length: length}
}

// WithValidator attaches a validation hook and returns the field.
func (f *ReversedString) WithValidator(v Validator) *ReversedString {
	f.validator = v
	return f
}

func (f *ReversedString) Decode(rec Record, data []byte) (any, int, error) {
	return f.DecodeSized(rec, data, f.length)
}

func (f *ReversedString) DecodeSized(_ Record, data []byte, size int) (any, int, error) {
	if size < 0 {
		return nil, 0, fmt.Errorf("negative length %d: %w", size, ErrMalformedInput)
	}
	if len(data) < size {
		return nil, 0, fmt.Errorf("need %d bytes, have %d: %w", size, len(data), ErrOutOfBounds)
	}
	s, err := decodeText(reverseBytes(data[:size]), f.enc)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding text: %w", err)
	}
	return s, size, nil
}

func (f *ReversedString) Encode(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to string", value)
	}
	b, err := encodeText(s, f.enc)
	if err != nil {
		return nil, fmt.Errorf("encoding text %q: %w", s, err)
	}
	if len(b) != f.length {
		return nil, fmt.Errorf("length mismatch: %q encodes to %d bytes, field holds %d: %w",
			s, len(b), f.length, ErrIntegerOverflow)
	}
	return reverseBytes(b), nil
}

func (f *ReversedString) SizeOf(value any) (int, error) {
	s, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("cannot convert %T to string", value)
	}
	b, err := encodeText(s, f.enc)
	if err != nil {
		return 0, fmt.Errorf("encoding text %q: %w", s, err)
	}
	return len(b), nil
}

// reverseBytes returns a reversed copy, so decoded values never alias the
// input buffer.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
