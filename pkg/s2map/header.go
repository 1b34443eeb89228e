package s2map

import (
	"fmt"
	"slices"

	"github.com/twinfer/s2map-plugin/pkg/binfield"
)

// Attribute is one key/locale/value entry of the header's attribs list.
// Locale is in logical order ("enUS"); the byte reversal on disk is handled
// by the schema.
type Attribute struct {
	Key    string `json:"key" yaml:"key"`
	Locale string `json:"locale" yaml:"locale"`
	Value  string `json:"value" yaml:"value"`
}

// DocumentHeader is the decoded documentheader record. The unk regions are
// carried verbatim so an unmodified header re-encodes byte-identically.
type DocumentHeader struct {
	MapMagic     []byte      `json:"map_magic" yaml:"map_magic"`
	Unk1         []byte      `json:"unk1" yaml:"unk1"`
	GameMagic    []byte      `json:"game_magic" yaml:"game_magic"`
	Unk2         []byte      `json:"unk2" yaml:"unk2"`
	Unk3         []byte      `json:"unk3" yaml:"unk3"`
	Unk4         []byte      `json:"unk4" yaml:"unk4"`
	Dependencies []string    `json:"dependencies" yaml:"dependencies"`
	Attribs      []Attribute `json:"attribs" yaml:"attribs"`
}

// DecodeHeader reads a documentheader from the front of data. Bytes after
// the record are ignored; map packages carry payload beyond the header.
func DecodeHeader(data []byte) (*DocumentHeader, error) {
	rec, _, err := headerSchema.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding document header: %w", err)
	}

	h := &DocumentHeader{
		MapMagic:     rec.Bytes("map_magic"),
		Unk1:         rec.Bytes("unk1"),
		GameMagic:    rec.Bytes("game_magic"),
		Unk2:         rec.Bytes("unk2"),
		Unk3:         rec.Bytes("unk3"),
		Unk4:         rec.Bytes("unk4"),
		Dependencies: make([]string, 0, len(rec.List("dependencies"))),
		Attribs:      make([]Attribute, 0, len(rec.List("attribs"))),
	}
	for _, dep := range rec.List("dependencies") {
		h.Dependencies = append(h.Dependencies, dep.(string))
	}
	for _, item := range rec.List("attribs") {
		attrib := item.(binfield.Record)
		h.Attribs = append(h.Attribs, Attribute{
			Key:    attrib.Text("key"),
			Locale: attrib.Text("locale"),
			Value:  attrib.Text("value"),
		})
	}
	return h, nil
}

// EncodeHeader produces the exact wire bytes for h.
func EncodeHeader(h *DocumentHeader) ([]byte, error) {
	deps := make([]any, len(h.Dependencies))
	for i, dep := range h.Dependencies {
		deps[i] = dep
	}
	attribs := make([]any, len(h.Attribs))
	for i, attrib := range h.Attribs {
		attribs[i] = binfield.Record{
			"key":    attrib.Key,
			"locale": attrib.Locale,
			"value":  attrib.Value,
		}
	}

	data, err := headerSchema.Encode(binfield.Record{
		"map_magic":    h.MapMagic,
		"unk1":         h.Unk1,
		"game_magic":   h.GameMagic,
		"unk2":         h.Unk2,
		"unk3":         h.Unk3,
		"unk4":         h.Unk4,
		"dependencies": deps,
		"attribs":      attribs,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding document header: %w", err)
	}
	return data, nil
}

// AddDependencies appends dependency URIs to the header, preserving order
// and skipping entries already present. It reports how many were added.
func (h *DocumentHeader) AddDependencies(deps ...string) int {
	added := 0
	for _, dep := range deps {
		if slices.Contains(h.Dependencies, dep) {
			continue
		}
		h.Dependencies = append(h.Dependencies, dep)
		added++
	}
	return added
}

// Attribute returns the value of the first attribute matching key and
// locale, or "" when absent.
func (h *DocumentHeader) Attribute(key, locale string) string {
	for _, attrib := range h.Attribs {
		if attrib.Key == key && attrib.Locale == locale {
			return attrib.Value
		}
	}
	return ""
}
