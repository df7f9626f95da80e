package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ScriptName string   `json:"scriptName"`
	Whitelist  []string `json:"whitelist"`
	IsPublic   bool     `json:"isPublic"`
}

// ---------------------------------------------------------------------------
// Serializers
// ---------------------------------------------------------------------------

func TestSerializeJSON(t *testing.T) {
	data, err := SerializeJSON(sample{ScriptName: "demo", Whitelist: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"scriptName\": \"demo\",\n  \"whitelist\": [\n    \"a\"\n  ],\n  \"isPublic\": false\n}\n", string(data))
}

func TestSerializeYAML_UsesJSONFieldNames(t *testing.T) {
	data, err := SerializeYAML(sample{ScriptName: "demo", IsPublic: true})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, "scriptName: demo")
	assert.Contains(t, s, "isPublic: true")
	assert.True(t, bytes.HasSuffix(data, []byte("\n")))
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"json", "yaml"}, r.Formats())

	_, err := r.Serializer("json")
	require.NoError(t, err)
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := DefaultRegistry().Serializer("toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, yaml")
}

func TestRegistry_EmptyListsNone(t *testing.T) {
	_, err := NewRegistry().Serializer("json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none")
}

func TestRegistry_Render(t *testing.T) {
	var buf bytes.Buffer

	err := DefaultRegistry().Render(NewStdoutWriter(&buf), "yaml", sample{ScriptName: "x"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scriptName: x")
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("json", func(any) ([]byte, error) { return []byte("custom"), nil })

	var buf bytes.Buffer
	require.NoError(t, r.Render(NewStdoutWriter(&buf), "json", nil))
	assert.Equal(t, "custom", buf.String())
}
