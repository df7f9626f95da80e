package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLayout creates a project-shaped directory with the given files, each
// holding its own name as content.
func newLayout(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()

	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o600))
	}

	return root
}

func TestClassify(t *testing.T) {
	root := newLayout(t,
		MainScriptFile,
		DescriptionFile,
		ConfigurationFile,
		"pkg/util.luau",
		"pkg/notes.txt",
		"pkg/sub/inner.luau",
		"other.txt",
		"src/"+MainScriptFile,
	)

	tests := []struct {
		rel  string
		want Role
	}{
		{MainScriptFile, RoleMainSource},
		{DescriptionFile, RoleDescription},
		{ConfigurationFile, RoleProjectConfiguration},
		{"pkg/util.luau", RoleModule},
		{"pkg/notes.txt", RoleModule},
		{"pkg/removed.luau", RoleModule},
		{"pkg/sub", RoleNone},
		{"pkg/sub/inner.luau", RoleNone},
		{"pkg", RoleNone},
		{"other.txt", RoleNone},
		{"src/" + MainScriptFile, RoleNone},
		{"missing.md", RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(root, filepath.FromSlash(tt.rel)))
		})
	}
}

func TestClassify_MissingRootFiles(t *testing.T) {
	root := t.TempDir()

	assert.Equal(t, RoleNone, Classify(root, MainScriptFile))
	assert.Equal(t, RoleNone, Classify(root, DescriptionFile))
	assert.Equal(t, RoleNone, Classify(root, ConfigurationFile))
}

func TestClassify_DirectoryNamedLikeFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, DescriptionFile), 0o750))

	assert.Equal(t, RoleNone, Classify(root, DescriptionFile))
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "main source", RoleMainSource.String())
	assert.Equal(t, "description", RoleDescription.String())
	assert.Equal(t, "project configuration", RoleProjectConfiguration.String())
	assert.Equal(t, "module", RoleModule.String())
	assert.Equal(t, "none", RoleNone.String())
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"pkg/util.luau", "util", true},
		{"util.luau", "util", true},
		{"pkg/archive.tar.luau", "archive.tar", true},
		{"pkg/noext", "noext", true},
		{"pkg/.foo", ".foo", true},
		{"pkg/.foo.luau", ".foo", true},
		{"pkg/trailing.", "trailing", true},
		{"", "", false},
		{"..", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ModuleName(filepath.FromSlash(tt.path))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
