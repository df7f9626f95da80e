package project

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrPathDiff is returned when a path cannot be expressed relative to a base.
var ErrPathDiff = errors.New("failed diffing paths")

// Component markers produced by components.
const (
	curDir    = "."
	parentDir = ".."
)

// DiffPaths returns path expressed relative to base, walking both paths
// component by component. It does not touch the filesystem.
//
// An absolute path against a relative base is returned unchanged; a
// relative path against an absolute base fails with ErrPathDiff, as does a
// base containing ".." where path has a real component. DiffPaths(p, p) is
// the empty string.
func DiffPaths(path, base string) (string, error) {
	if filepath.IsAbs(path) != filepath.IsAbs(base) {
		if filepath.IsAbs(path) {
			return path, nil
		}

		return "", ErrPathDiff
	}

	ita := components(path)
	itb := components(base)

	var comps []string

	i, j := 0, 0

	for {
		hasA, hasB := i < len(ita), j < len(itb)

		switch {
		case !hasA && !hasB:
			return strings.Join(comps, string(filepath.Separator)), nil

		case hasA && !hasB:
			comps = append(comps, ita[i:]...)
			return strings.Join(comps, string(filepath.Separator)), nil

		case !hasA:
			comps = append(comps, parentDir)
			j++

		case len(comps) == 0 && ita[i] == itb[j]:
			i++
			j++

		case itb[j] == curDir:
			comps = append(comps, ita[i])
			i++
			j++

		case itb[j] == parentDir:
			return "", ErrPathDiff

		default:
			comps = append(comps, parentDir)
			for range itb[j+1:] {
				comps = append(comps, parentDir)
			}

			comps = append(comps, ita[i:]...)

			return strings.Join(comps, string(filepath.Separator)), nil
		}
	}
}

// components splits p into its path components. A root is reported as the
// separator, a leading "." is kept, any other "." and empty segments are
// dropped, and ".." is kept verbatim.
func components(p string) []string {
	var out []string

	vol := filepath.VolumeName(p)
	rest := p[len(vol):]

	if vol != "" {
		out = append(out, vol)
	}

	sep := string(filepath.Separator)

	if strings.HasPrefix(rest, sep) || (filepath.Separator != '/' && strings.HasPrefix(rest, "/")) {
		out = append(out, sep)
	}

	parts := strings.FieldsFunc(rest, func(r rune) bool {
		return r == filepath.Separator || r == '/'
	})

	for n, part := range parts {
		if part == curDir && (n != 0 || len(out) > 0) {
			continue
		}

		out = append(out, part)
	}

	return out
}
