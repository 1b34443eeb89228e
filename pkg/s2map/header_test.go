package s2map

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinfer/s2map-plugin/pkg/binfield"
)

// sampleHeaderBytes is a minimal valid documentheader: both magics, the unk
// regions seen in real maps, no dependencies, and one attribute
// {key: "map", locale: "enUS", value: "test"} with the locale stored
// reversed on the wire.
func sampleHeaderBytes() []byte {
	return []byte{
		'H', '2', 'C', 'S', // map_magic
		0x08, 0x00, 0x00, 0x00, // unk1
		'2', 'S', 0x00, 0x00, // game_magic
		0x08, 0x00, 0x00, 0x00, // unk2
		0xE1, 0x38, 0x01, 0x00, 0xE1, 0x38, 0x01, 0x00, // unk3
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // unk4
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // dependencies count = 0
		0x01, 0x00, 0x00, 0x00, // attribs count = 1
		0x03, 0x00, 'm', 'a', 'p', // key
		'S', 'U', 'n', 'e', // locale, "enUS" reversed
		0x04, 0x00, 't', 'e', 's', 't', // value
	}
}

func TestDecodeHeader_WorkedExample(t *testing.T) {
	h, err := DecodeHeader(sampleHeaderBytes())
	require.NoError(t, err)

	assert.Equal(t, MapMagic, h.MapMagic)
	assert.Equal(t, GameMagic, h.GameMagic)
	assert.Empty(t, h.Dependencies)
	require.Len(t, h.Attribs, 1)
	assert.Equal(t, Attribute{Key: "map", Locale: "enUS", Value: "test"}, h.Attribs[0])
}

func TestHeaderRoundTrip(t *testing.T) {
	wire := sampleHeaderBytes()

	h, err := DecodeHeader(wire)
	require.NoError(t, err)

	out, err := EncodeHeader(h)
	require.NoError(t, err)
	assert.Equal(t, wire, out)
}

func TestDecodeHeader_ToleratesTrailingBytes(t *testing.T) {
	wire := append(sampleHeaderBytes(), 0xDE, 0xAD, 0xBE, 0xEF)

	h, err := DecodeHeader(wire)
	require.NoError(t, err)
	assert.Len(t, h.Attribs, 1)
}

func TestDecodeHeader_BadMagic(t *testing.T) {
	wire := sampleHeaderBytes()
	copy(wire, "XXXX")

	_, err := DecodeHeader(wire)
	require.ErrorIs(t, err, binfield.ErrValidationFailed)
	assert.Contains(t, err.Error(), "'map_magic'")
}

func TestDecodeHeader_BadGameMagic(t *testing.T) {
	wire := sampleHeaderBytes()
	copy(wire[8:], "XX\x00\x00")

	_, err := DecodeHeader(wire)
	require.ErrorIs(t, err, binfield.ErrValidationFailed)
	assert.Contains(t, err.Error(), "'game_magic'")
}

func TestDecodeHeader_Truncated(t *testing.T) {
	_, err := DecodeHeader(sampleHeaderBytes()[:20])
	require.ErrorIs(t, err, binfield.ErrOutOfBounds)
}

func TestAddDependencies(t *testing.T) {
	h, err := DecodeHeader(sampleHeaderBytes())
	require.NoError(t, err)

	added := h.AddDependencies(
		"bnet:Swarm Story (Campaign)/0.0/999",
		"file:Campaigns/SwarmStory.SC2Campaign",
	)
	assert.Equal(t, 2, added)

	out, err := EncodeHeader(h)
	require.NoError(t, err)

	// The count prefix must reflect the grown list.
	again, err := DecodeHeader(out)
	require.NoError(t, err)
	if diff := cmp.Diff(h, again); diff != "" {
		t.Errorf("header changed across round trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{
		"bnet:Swarm Story (Campaign)/0.0/999",
		"file:Campaigns/SwarmStory.SC2Campaign",
	}, again.Dependencies)
}

func TestAddDependencies_SkipsDuplicates(t *testing.T) {
	h := &DocumentHeader{Dependencies: []string{"file:a"}}

	added := h.AddDependencies("file:a", "file:b", "file:b")
	assert.Equal(t, 1, added)
	assert.Equal(t, []string{"file:a", "file:b"}, h.Dependencies)
}

func TestAttributeLookup(t *testing.T) {
	h, err := DecodeHeader(sampleHeaderBytes())
	require.NoError(t, err)

	assert.Equal(t, "test", h.Attribute("map", "enUS"))
	assert.Equal(t, "", h.Attribute("map", "deDE"))
	assert.Equal(t, "", h.Attribute("missing", "enUS"))
}

func TestEncodeHeader_WrongMagicWidth(t *testing.T) {
	h, err := DecodeHeader(sampleHeaderBytes())
	require.NoError(t, err)
	h.Unk3 = []byte{0x01} // field holds 8 bytes

	_, err = EncodeHeader(h)
	require.ErrorIs(t, err, binfield.ErrIntegerOverflow)
	assert.Contains(t, err.Error(), "'unk3'")
}
