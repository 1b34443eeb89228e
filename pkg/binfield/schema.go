package binfield

import (
	"bytes"
	"fmt"
)

// Schema is an ordered set of named fields describing one record layout.
// Construct it once and use it from any goroutine: decoding keeps its state
// in locals and the Record, never in the schema or its fields.
type Schema struct {
	fields []NamedField
}

// NewSchema fixes the field order of a record layout.
func NewSchema(fields ...NamedField) *Schema {
	return &Schema{fields: fields}
}

// Decode reads one record from the front of data, returning the named
// values and the total bytes consumed. Fields decode in declaration order;
// each sees the values decoded before it, and its validator runs before the
// next field starts. Trailing bytes are ignored.
func (s *Schema) Decode(data []byte) (Record, int, error) {
	rec := make(Record, len(s.fields))
	offset := 0
	for _, nf := range s.fields {
		v, n, err := nf.Field.Decode(rec, data[offset:])
		if err != nil {
			return nil, 0, fmt.Errorf("field '%s': %w", nf.Name, err)
		}
		if err := nf.Field.Validate(v); err != nil {
			return nil, 0, fmt.Errorf("field '%s': %w", nf.Name, err)
		}
		rec[nf.Name] = v
		offset += n
	}
	return rec, offset, nil
}

// Encode serializes rec field by field in declaration order. Every name the
// schema declares must be present in rec.
func (s *Schema) Encode(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	for _, nf := range s.fields {
		v, ok := rec[nf.Name]
		if !ok {
			return nil, fmt.Errorf("field '%s': missing from record", nf.Name)
		}
		b, err := nf.Field.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", nf.Name, err)
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, nf := range s.fields {
		names[i] = nf.Name
	}
	return names
}

// Record holds the decoded values of one schema, keyed by field name. The
// typed accessors return zero values for absent or differently-typed
// entries.
type Record map[string]any

// Uint returns the named value as a uint64.
func (r Record) Uint(name string) uint64 {
	u, err := toUint(r[name])
	if err != nil {
		return 0
	}
	return u
}

// Text returns the named string value.
func (r Record) Text(name string) string {
	s, _ := r[name].(string)
	return s
}

// Bytes returns the named raw byte value.
func (r Record) Bytes(name string) []byte {
	b, _ := r[name].([]byte)
	return b
}

// List returns the named sequence value.
func (r Record) List(name string) []any {
	items, _ := r[name].([]any)
	return items
}

// Child returns the named nested record.
func (r Record) Child(name string) Record {
	switch v := r[name].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	default:
		return nil
	}
}
