// Package project describes the on-disk layout of a fumo project and the
// operations that move it between disk and the remote service: init, pull,
// push, and the path classification used by the watcher.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/techs-sus/fumo/internal/api"
	"github.com/techs-sus/fumo/internal/output"
)

// Fixed names inside a project directory.
const (
	ConfigurationFile = "fumosync.json"
	MainScriptFile    = "init.server.luau"
	DescriptionFile   = "README.md"
	ModuleDirectory   = "pkg"

	// ModuleExtension is the extension of module files in ModuleDirectory.
	ModuleExtension = ".luau"

	// PlaceholderScriptID is written by Init until the project is linked to
	// a real remote script.
	PlaceholderScriptID = "???"
)

// ErrDirectoryExists is returned by Init when the target already exists.
var ErrDirectoryExists = errors.New("directory already exists")

// Configuration is the content of fumosync.json.
type Configuration struct {
	ScriptName string   `json:"scriptName"`
	ScriptID   string   `json:"scriptId"`
	Whitelist  []string `json:"whitelist"`
	IsPublic   bool     `json:"isPublic"`
}

// EditorUpdates expands the configuration into the three remote fields it
// controls: name, whitelist and publicity.
func (c *Configuration) EditorUpdates() []api.EditorUpdate {
	return []api.EditorUpdate{
		api.Name(c.ScriptName),
		api.Whitelist(c.Whitelist),
		api.Publicity(c.IsPublic),
	}
}

// ReadConfiguration reads fumosync.json from the project at dir.
func ReadConfiguration(dir string) (*Configuration, error) {
	data, err := ReadFile(filepath.Join(dir, ConfigurationFile))
	if err != nil {
		return nil, err
	}

	var cfg Configuration
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationFile, err)
	}

	return &cfg, nil
}

// WriteConfiguration writes cfg as fumosync.json into the project at dir.
func WriteConfiguration(dir string, cfg *Configuration) error {
	out := *cfg
	if out.Whitelist == nil {
		out.Whitelist = []string{}
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", ConfigurationFile, err)
	}

	return WriteFile(filepath.Join(dir, ConfigurationFile), string(data))
}

// ReadFile returns the content of the file at path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths are project files
	if err != nil {
		return "", fmt.Errorf("failed reading file %s: %w", path, err)
	}

	return string(data), nil
}

// WriteFile writes contents to path, creating parent directories as needed.
func WriteFile(path, contents string) error {
	if err := output.NewFileWriter(path).Write([]byte(contents)); err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}

	return nil
}
