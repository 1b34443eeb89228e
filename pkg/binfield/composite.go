package binfield

import (
	"fmt"
)

// --- Composite fields ---

// List is a homogeneous sequence whose element count is governed externally:
// bound to a sibling with WithCountFrom or supplied by an enclosing
// LengthPrefixed wrapper. It decodes to []any.
type List struct {
	validating
	elem      Field
	countFrom string
}

// NewList builds a sequence of elem with no count of its own; it must be
// wrapped in LengthPrefixed or bound with WithCountFrom before use.
func NewList(elem Field) *List {
	return &List{elem: elem}
}

// WithCountFrom binds the element count to a previously decoded sibling and
// returns the field.
func (f *List) WithCountFrom(name string) *List {
	f.countFrom = name
	return f
}

// WithValidator attaches a validation hook and returns the field.
func (f *List) WithValidator(v Validator) *List {
	f.validator = v
	return f
}

func (f *List) Decode(rec Record, data []byte) (any, int, error) {
	if f.countFrom == "" {
		return nil, 0, fmt.Errorf("list has no count: use WithCountFrom or LengthPrefixed")
	}
	gov, ok := rec[f.countFrom]
	if !ok {
		return nil, 0, fmt.Errorf("governing field '%s' not decoded yet", f.countFrom)
	}
	count, err := toCount(gov)
	if err != nil {
		return nil, 0, fmt.Errorf("governing field '%s': %w", f.countFrom, err)
	}
	return f.DecodeSized(rec, data, count)
}

func (f *List) DecodeSized(rec Record, data []byte, count int) (any, int, error) {
	if count < 0 {
		return nil, 0, fmt.Errorf("negative count %d: %w", count, ErrMalformedInput)
	}
	// The count comes from the wire, so cap the allocation at what the
	// remaining buffer could hold; append grows past it if needed.
	items := make([]any, 0, min(count, len(data)))
	offset := 0
	for i := 0; i < count; i++ {
		v, n, err := f.elem.Decode(rec, data[offset:])
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		if err := f.elem.Validate(v); err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, v)
		offset += n
	}
	return items, offset, nil
}

func (f *List) Encode(value any) ([]byte, error) {
	items, err := asList(value)
	if err != nil {
		return nil, err
	}
	var out []byte
	for i, item := range items {
		b, err := f.elem.Encode(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// SizeOf reports the element count, the quantity a length prefix records
// for a list.
func (f *List) SizeOf(value any) (int, error) {
	items, err := asList(value)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func asList(value any) ([]any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot convert %T to list", value)
	}
	return items, nil
}

// LengthPrefixed decodes an integer prefix and hands it to a sized field as
// its byte length or element count. The decoded value is the inner field's
// value; the prefix never appears in the record.
type LengthPrefixed struct {
	validating
	prefix Field
	elem   SizedField
}

// NewLengthPrefixed wraps elem behind an integer prefix field.
func NewLengthPrefixed(prefix Field, elem SizedField) *LengthPrefixed {
	return &LengthPrefixed{prefix: prefix, elem: elem}
}

// WithValidator attaches a validation hook and returns the field.
func (f *LengthPrefixed) WithValidator(v Validator) *LengthPrefixed {
	f.validator = v
	return f
}

func (f *LengthPrefixed) Decode(rec Record, data []byte) (any, int, error) {
	pv, pn, err := f.prefix.Decode(rec, data)
	if err != nil {
		return nil, 0, fmt.Errorf("length prefix: %w", err)
	}
	if err := f.prefix.Validate(pv); err != nil {
		return nil, 0, fmt.Errorf("length prefix: %w", err)
	}
	size, err := toCount(pv)
	if err != nil {
		return nil, 0, fmt.Errorf("length prefix: %w", err)
	}
	v, n, err := f.elem.DecodeSized(rec, data[pn:], size)
	if err != nil {
		return nil, 0, err
	}
	if err := f.elem.Validate(v); err != nil {
		return nil, 0, err
	}
	return v, pn + n, nil
}

func (f *LengthPrefixed) Encode(value any) ([]byte, error) {
	size, err := f.elem.SizeOf(value)
	if err != nil {
		return nil, err
	}
	out, err := f.prefix.Encode(size)
	if err != nil {
		return nil, fmt.Errorf("length prefix: %w", err)
	}
	payload, err := f.elem.Encode(value)
	if err != nil {
		return nil, err
	}
	return append(out, payload...), nil
}

// Nested embeds a sub-schema as a single field. It decodes to a Record
// built from scratch; inner fields cannot see the enclosing record.
type Nested struct {
	validating
	schema *Schema
}

// NewNested builds a field decoding via schema.
func NewNested(schema *Schema) *Nested {
	return &Nested{schema: schema}
}

// WithValidator attaches a validation hook and returns the field.
func (f *Nested) WithValidator(v Validator) *Nested {
	f.validator = v
	return f
}

func (f *Nested) Decode(_ Record, data []byte) (any, int, error) {
	rec, n, err := f.schema.Decode(data)
	if err != nil {
		return nil, 0, err
	}
	return rec, n, nil
}

func (f *Nested) Encode(value any) ([]byte, error) {
	switch rec := value.(type) {
	case Record:
		return f.schema.Encode(rec)
	case map[string]any:
		return f.schema.Encode(Record(rec))
	default:
		return nil, fmt.Errorf("cannot convert %T to record", value)
	}
}
