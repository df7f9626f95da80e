package project

import (
	"os"
	"path/filepath"
	"strings"
)

// Role is the meaning of a project-relative path.
type Role int

// Path roles.
const (
	RoleNone Role = iota
	RoleMainSource
	RoleDescription
	RoleProjectConfiguration
	RoleModule
)

// String returns a human-readable representation of the role.
func (r Role) String() string {
	switch r {
	case RoleMainSource:
		return "main source"
	case RoleDescription:
		return "description"
	case RoleProjectConfiguration:
		return "project configuration"
	case RoleModule:
		return "module"
	default:
		return "none"
	}
}

// Classify returns the role of rel, a path relative to the project at root.
//
// A path whose parent directory is named ModuleDirectory is a module unless
// it is a directory; a module that no longer exists still classifies so its
// removal reaches the sync driver. The main script, description and
// configuration file are only recognised while they exist as regular files.
func Classify(root, rel string) Role {
	full := filepath.Join(root, rel)

	if isModulePath(rel) {
		if info, err := os.Stat(full); err == nil && info.IsDir() {
			return RoleNone
		}

		return RoleModule
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return RoleNone
	}

	switch filepath.Clean(rel) {
	case MainScriptFile:
		return RoleMainSource
	case DescriptionFile:
		return RoleDescription
	case ConfigurationFile:
		return RoleProjectConfiguration
	default:
		return RoleNone
	}
}

// isModulePath reports whether rel's parent directory is ModuleDirectory.
func isModulePath(rel string) bool {
	parent := filepath.Dir(filepath.Clean(rel))
	if parent == "." || parent == string(filepath.Separator) {
		return false
	}

	return filepath.Base(parent) == ModuleDirectory
}

// ModuleName derives a module name from a module file path: the file name
// with its extension removed. A leading dot does not start an extension, so
// ".foo" names the module ".foo". It reports false when path has no file
// name.
func ModuleName(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", false
	}

	name := base
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		name = base[:i]
	}

	return name, true
}
