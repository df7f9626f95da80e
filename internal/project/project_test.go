package project

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techs-sus/fumo/internal/api"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRemote struct {
	editor  *api.Editor
	err     error
	gotID   string
	updates []api.EditorUpdate
}

func (f *fakeRemote) GetEditor(_ context.Context, scriptID string) (*api.Editor, error) {
	f.gotID = scriptID
	if f.err != nil {
		return nil, f.err
	}

	return f.editor, nil
}

func (f *fakeRemote) SetEditor(_ context.Context, scriptID string, updates []api.EditorUpdate) error {
	f.gotID = scriptID
	f.updates = updates

	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func readString(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

func TestConfiguration_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Configuration{ScriptName: "demo", ScriptID: "s1", Whitelist: []string{"a"}, IsPublic: true}

	require.NoError(t, WriteConfiguration(dir, cfg))

	got, err := ReadConfiguration(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestWriteConfiguration_Format(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteConfiguration(dir, &Configuration{ScriptName: "demo", ScriptID: "s1"}))

	want := "{\n  \"scriptName\": \"demo\",\n  \"scriptId\": \"s1\",\n  \"whitelist\": [],\n  \"isPublic\": false\n}"
	assert.Equal(t, want, readString(t, filepath.Join(dir, ConfigurationFile)))
}

func TestReadConfiguration_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadConfiguration(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigurationFile), []byte("{"), 0o600))

	_, err = ReadConfiguration(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestConfiguration_EditorUpdates(t *testing.T) {
	cfg := &Configuration{ScriptName: "demo", Whitelist: []string{"u"}, IsPublic: true}

	assert.Equal(t, []api.EditorUpdate{
		api.Name("demo"),
		api.Whitelist([]string{"u"}),
		api.Publicity(true),
	}, cfg.EditorUpdates())
}

// ---------------------------------------------------------------------------
// Init
// ---------------------------------------------------------------------------

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "myscript")

	require.NoError(t, Init(dir))

	assert.DirExists(t, filepath.Join(dir, ModuleDirectory))
	assert.FileExists(t, filepath.Join(dir, ".vscode", "settings.json"))
	assert.FileExists(t, filepath.Join(dir, "types.d.luau"))
	assert.Equal(t, mainScriptStub, readString(t, filepath.Join(dir, MainScriptFile)))
	assert.Equal(t, descriptionStub, readString(t, filepath.Join(dir, DescriptionFile)))

	cfg, err := ReadConfiguration(dir)
	require.NoError(t, err)
	assert.Equal(t, "myscript", cfg.ScriptName)
	assert.Equal(t, PlaceholderScriptID, cfg.ScriptID)
	assert.Empty(t, cfg.Whitelist)
	assert.False(t, cfg.IsPublic)
}

func TestInit_ExistingDirectory(t *testing.T) {
	dir := t.TempDir()

	err := Init(dir)
	require.ErrorIs(t, err, ErrDirectoryExists)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "existing directory must be left untouched")
}

// ---------------------------------------------------------------------------
// Pull
// ---------------------------------------------------------------------------

func TestPull(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pulled")
	remote := &fakeRemote{editor: &api.Editor{
		Success: true,
		ScriptInfo: api.ScriptInfo{
			Name:        "Remote Name",
			Description: "# remote",
			IsPublic:    true,
			Whitelist:   []string{"friend"},
			Source: api.Source{
				Main:    "print('main')",
				Modules: map[string]string{"util": "return 1", "net": "return 2"},
			},
		},
	}}

	require.NoError(t, Pull(context.Background(), remote, "s42", dir))

	assert.Equal(t, "s42", remote.gotID)
	assert.Equal(t, "# remote", readString(t, filepath.Join(dir, DescriptionFile)))
	assert.Equal(t, "print('main')", readString(t, filepath.Join(dir, MainScriptFile)))
	assert.Equal(t, "return 1", readString(t, filepath.Join(dir, ModuleDirectory, "util.luau")))
	assert.Equal(t, "return 2", readString(t, filepath.Join(dir, ModuleDirectory, "net.luau")))

	cfg, err := ReadConfiguration(dir)
	require.NoError(t, err)
	assert.Equal(t, &Configuration{
		ScriptName: "Remote Name",
		ScriptID:   "s42",
		Whitelist:  []string{"friend"},
		IsPublic:   true,
	}, cfg)
}

func TestPull_ExistingDirectory(t *testing.T) {
	remote := &fakeRemote{}

	err := Pull(context.Background(), remote, "s1", t.TempDir())
	require.ErrorIs(t, err, ErrDirectoryExists)
	assert.Contains(t, err.Error(), "failed initializing project")
	assert.Empty(t, remote.gotID, "remote must not be contacted")
}

func TestPull_RemoteError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pulled")
	remote := &fakeRemote{err: api.ErrNotLoggedIn}

	err := Pull(context.Background(), remote, "s1", dir)
	require.ErrorIs(t, err, api.ErrNotLoggedIn)
}

// ---------------------------------------------------------------------------
// Load / Push
// ---------------------------------------------------------------------------

func writeProject(t *testing.T) string {
	t.Helper()

	dir := newLayout(t, "pkg/b.luau", "pkg/a.luau", "pkg/readme.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, ModuleDirectory, "nested.luau"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MainScriptFile), []byte("main"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DescriptionFile), []byte("desc"), 0o600))
	require.NoError(t, WriteConfiguration(dir, &Configuration{ScriptName: "n", ScriptID: "s9", IsPublic: true}))

	return dir
}

func TestLoad(t *testing.T) {
	dir := writeProject(t)

	snap, err := Load(dir, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "main", snap.MainSource)
	assert.Equal(t, "desc", snap.Description)
	assert.Equal(t, "s9", snap.Configuration.ScriptID)
	assert.Equal(t, map[string]string{"a": "pkg/a.luau", "b": "pkg/b.luau"}, snap.Modules)
}

func TestLoad_DotNamedModules(t *testing.T) {
	dir := writeProject(t)
	pkg := filepath.Join(dir, ModuleDirectory)
	require.NoError(t, os.WriteFile(filepath.Join(pkg, ".hidden.luau"), []byte("return 2"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, ".luau"), []byte("return 3"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "notes.txt"), []byte("x"), 0o600))

	snap, err := Load(dir, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "return 2", snap.Modules[".hidden"])
	assert.NotContains(t, snap.Modules, ".luau", "a bare extension has no module name")
	assert.NotContains(t, snap.Modules, "notes")
	assert.Len(t, snap.Modules, 3)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := writeProject(t)
	require.NoError(t, os.Remove(filepath.Join(dir, DescriptionFile)))

	_, err := Load(dir, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed reading file")
}

func TestPush(t *testing.T) {
	dir := writeProject(t)
	remote := &fakeRemote{}

	require.NoError(t, Push(context.Background(), remote, dir, discardLogger()))

	assert.Equal(t, "s9", remote.gotID)
	assert.Equal(t, []api.EditorUpdate{
		api.Description("desc"),
		api.MainSource("main"),
		api.Name("n"),
		api.Whitelist([]string{}),
		api.Publicity(true),
		api.Module("a", "pkg/a.luau"),
		api.Module("b", "pkg/b.luau"),
	}, remote.updates)
}

func TestPush_RemoteError(t *testing.T) {
	dir := writeProject(t)
	boom := errors.New("boom")

	err := Push(context.Background(), &fakeRemote{err: boom}, dir, discardLogger())
	require.ErrorIs(t, err, boom)
}
