package binfield

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerLikeSchema() *Schema {
	return NewSchema(
		Named("magic", NewBytes(2).WithValidator(MagicBytes([]byte("OK")))),
		Named("count", NewUint32()),
		Named("names", NewList(NewStringZ(nil)).WithCountFrom("count")),
	)
}

func TestSchema_DecodeInOrder(t *testing.T) {
	wire := []byte{
		'O', 'K', // magic
		0x02, 0x00, 0x00, 0x00, // count = 2
		'a', 0x00, 'b', 'c', 0x00, // names
	}

	rec, n, err := headerLikeSchema().Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, len(wire), n)
	assert.Equal(t, []byte("OK"), rec.Bytes("magic"))
	assert.Equal(t, uint64(2), rec.Uint("count"))
	assert.Equal(t, []any{"a", "bc"}, rec.List("names"))
}

func TestSchema_DecodeIgnoresTrailingBytes(t *testing.T) {
	wire := []byte{'O', 'K', 0x00, 0x00, 0x00, 0x00, 0xDE, 0xAD}

	rec, n, err := headerLikeSchema().Decode(wire)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.NotNil(t, rec)
}

func TestSchema_ValidatorFailureNamesField(t *testing.T) {
	wire := []byte{'N', 'O', 0x00, 0x00, 0x00, 0x00}

	_, _, err := headerLikeSchema().Decode(wire)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "'magic'")
}

func TestSchema_DecodeErrorNamesField(t *testing.T) {
	wire := []byte{'O', 'K', 0x01, 0x00} // count truncated

	_, _, err := headerLikeSchema().Decode(wire)
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Contains(t, err.Error(), "'count'")
}

func TestSchema_EncodeMissingField(t *testing.T) {
	rec := Record{"magic": []byte("OK"), "count": uint32(0)}

	_, err := headerLikeSchema().Encode(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'names'")
}

func TestSchema_RoundTripByteFirst(t *testing.T) {
	wire := []byte{
		'O', 'K',
		0x03, 0x00, 0x00, 0x00,
		'x', 0x00, 'y', 0x00, 'z', 0x00,
	}
	s := headerLikeSchema()

	rec, _, err := s.Decode(wire)
	require.NoError(t, err)

	out, err := s.Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, wire, out)
}

func TestSchema_RoundTripValueFirst(t *testing.T) {
	s := headerLikeSchema()
	rec := Record{
		"magic": []byte("OK"),
		"count": uint32(2),
		"names": []any{"left", "right"},
	}

	wire, err := s.Encode(rec)
	require.NoError(t, err)

	back, _, err := s.Decode(wire)
	require.NoError(t, err)

	// Decode widens nothing: count stays uint32, names stay []any of string.
	if diff := cmp.Diff(rec, back); diff != "" {
		t.Errorf("record mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestSchema_Names(t *testing.T) {
	assert.Equal(t, []string{"magic", "count", "names"}, headerLikeSchema().Names())
}

func TestRecord_Accessors(t *testing.T) {
	rec := Record{
		"u":     uint32(7),
		"s":     "text",
		"b":     []byte{1},
		"l":     []any{"x"},
		"child": Record{"k": "v"},
		"plain": map[string]any{"k": "v"},
	}

	assert.Equal(t, uint64(7), rec.Uint("u"))
	assert.Equal(t, "text", rec.Text("s"))
	assert.Equal(t, []byte{1}, rec.Bytes("b"))
	assert.Equal(t, []any{"x"}, rec.List("l"))
	assert.Equal(t, "v", rec.Child("child").Text("k"))
	assert.Equal(t, "v", rec.Child("plain").Text("k"))

	t.Run("missing names yield zero values", func(t *testing.T) {
		assert.Zero(t, rec.Uint("nope"))
		assert.Zero(t, rec.Text("nope"))
		assert.Nil(t, rec.Bytes("nope"))
		assert.Nil(t, rec.List("nope"))
		assert.Nil(t, rec.Child("nope"))
	})

	t.Run("mistyped names yield zero values", func(t *testing.T) {
		assert.Zero(t, rec.Uint("s"))
		assert.Zero(t, rec.Text("u"))
	})
}
