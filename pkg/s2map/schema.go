// Package s2map reads and rewrites the documentheader record of an extracted
// StarCraft II map package, and keeps the documentinfo XML sidecar's
// dependency list in sync with it. The binary layout is declared as a
// binfield schema; all text in the format uses code page 437, never UTF-8.
package s2map

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/twinfer/s2map-plugin/pkg/binfield"
)

// File magics at the head of every documentheader.
var (
	MapMagic  = []byte("H2CS")
	GameMagic = []byte("2S\x00\x00")
)

// textEncoding is the single code page shared by every string in the format.
var textEncoding encoding.Encoding = charmap.CodePage437

// newAttributeSchema lays out one map attribute: a length-prefixed key, a
// four-byte locale stored back-to-front ("enUS" on disk is "SUne"), and a
// length-prefixed value.
func newAttributeSchema() *binfield.Schema {
	return binfield.NewSchema(
		binfield.Named("key", binfield.NewLengthPrefixed(
			binfield.NewUint16(), binfield.NewString(textEncoding))),
		binfield.Named("locale", binfield.NewReversedString(4, textEncoding)),
		binfield.Named("value", binfield.NewLengthPrefixed(
			binfield.NewUint16(), binfield.NewString(textEncoding))),
	)
}

// newHeaderSchema lays out the whole documentheader record. Field order is
// the on-disk byte order.
func newHeaderSchema() *binfield.Schema {
	return binfield.NewSchema(
		binfield.Named("map_magic",
			binfield.NewBytes(4).WithValidator(binfield.MagicBytes(MapMagic))),
		binfield.Named("unk1", binfield.NewBytes(4)),
		binfield.Named("game_magic",
			binfield.NewBytes(4).WithValidator(binfield.MagicBytes(GameMagic))),
		binfield.Named("unk2", binfield.NewBytes(4)),
		binfield.Named("unk3", binfield.NewBytes(8)),
		binfield.Named("unk4", binfield.NewBytes(20)),
		binfield.Named("dependencies", binfield.NewLengthPrefixed(
			binfield.NewUint32(),
			binfield.NewList(binfield.NewStringZ(textEncoding)))),
		binfield.Named("attribs", binfield.NewLengthPrefixed(
			binfield.NewUint32(),
			binfield.NewList(binfield.NewNested(newAttributeSchema())))),
	)
}

// Schemas are stateless after construction, so one of each serves every call.
var headerSchema = newHeaderSchema()
