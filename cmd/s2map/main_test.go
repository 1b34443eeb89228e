package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinfer/s2map-plugin/pkg/s2map"
)

const docInfoFixture = `<?xml version="1.0" encoding="utf-8"?>
<DocInfo>
    <Dependencies>
    </Dependencies>
</DocInfo>
`

// writeMapDir lays out a map directory with one attribute and no
// dependencies.
func writeMapDir(t *testing.T) string {
	t.Helper()
	header := &s2map.DocumentHeader{
		MapMagic:  s2map.MapMagic,
		Unk1:      make([]byte, 4),
		GameMagic: s2map.GameMagic,
		Unk2:      make([]byte, 4),
		Unk3:      make([]byte, 8),
		Unk4:      make([]byte, 20),
		Attribs: []s2map.Attribute{
			{Key: "map", Locale: "enUS", Value: "test"},
			{Key: "minimap", Locale: "deDE", Value: "klein"},
		},
	}
	data, err := s2map.EncodeHeader(header)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "documentheader"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "documentinfo"), []byte(docInfoFixture), 0o644))
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow_JSON(t *testing.T) {
	dir := writeMapDir(t)

	out, err := runCommand(t, "show", dir)
	require.NoError(t, err)

	var decoded s2map.DocumentHeader
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Attribs, 2)
	assert.Equal(t, "test", decoded.Attribute("map", "enUS"))
}

func TestShow_YAML(t *testing.T) {
	dir := writeMapDir(t)

	out, err := runCommand(t, "show", dir, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "locale: enUS")
}

func TestShow_WhereFilter(t *testing.T) {
	dir := writeMapDir(t)

	out, err := runCommand(t, "show", dir, "--where", `locale == "deDE"`)
	require.NoError(t, err)

	var decoded s2map.DocumentHeader
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Attribs, 1)
	assert.Equal(t, "minimap", decoded.Attribs[0].Key)
}

func TestShow_BadWhereExpression(t *testing.T) {
	dir := writeMapDir(t)

	_, err := runCommand(t, "show", dir, "--where", `locale ==`)
	require.Error(t, err)
}

func TestShow_UnknownFormat(t *testing.T) {
	dir := writeMapDir(t)

	_, err := runCommand(t, "show", dir, "-o", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestAddDep(t *testing.T) {
	dir := writeMapDir(t)

	out, err := runCommand(t, "adddep", dir, "file:Campaigns/SwarmStory.SC2Campaign")
	require.NoError(t, err)
	assert.Contains(t, out, "1 dependencies")

	pkg, err := s2map.OpenMapPackage(dir)
	require.NoError(t, err)
	header, err := pkg.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, []string{"file:Campaigns/SwarmStory.SC2Campaign"}, header.Dependencies)
	info, err := pkg.ReadInfo()
	require.NoError(t, err)
	assert.Equal(t, header.Dependencies, info.Dependencies())
}

func TestAddDep_DryRunLeavesFilesUntouched(t *testing.T) {
	dir := writeMapDir(t)
	before, err := os.ReadFile(filepath.Join(dir, "documentheader"))
	require.NoError(t, err)

	out, err := runCommand(t, "adddep", dir, "file:a", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "file:a")

	after, err := os.ReadFile(filepath.Join(dir, "documentheader"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFilterAttribs(t *testing.T) {
	attribs := []s2map.Attribute{
		{Key: "map", Locale: "enUS", Value: "test"},
		{Key: "minimap", Locale: "deDE", Value: "klein"},
	}

	t.Run("matches subset", func(t *testing.T) {
		kept, err := filterAttribs(attribs, `key == "map" && value == "test"`)
		require.NoError(t, err)
		require.Len(t, kept, 1)
		assert.Equal(t, "enUS", kept[0].Locale)
	})

	t.Run("matches all", func(t *testing.T) {
		kept, err := filterAttribs(attribs, `key != ""`)
		require.NoError(t, err)
		assert.Len(t, kept, 2)
	})

	t.Run("non-boolean expression rejected", func(t *testing.T) {
		_, err := filterAttribs(attribs, `key`)
		require.Error(t, err)
	})

	t.Run("string functions work", func(t *testing.T) {
		kept, err := filterAttribs(attribs, `locale startsWith "en"`)
		require.NoError(t, err)
		require.Len(t, kept, 1)
		assert.Equal(t, "map", kept[0].Key)
	})
}

func TestShow_MissingDir(t *testing.T) {
	_, err := runCommand(t, "show", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestAddDep_RequiresDependencyArg(t *testing.T) {
	_, err := runCommand(t, "adddep", "somewhere")
	require.Error(t, err)
}
