// Package diff compares a local project with its remote script and renders
// the differences as unified diffs.
package diff

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/techs-sus/fumo/internal/api"
	"github.com/techs-sus/fumo/internal/project"
)

// Result holds the result of a unified diff computation for one file.
type Result struct {
	Path           string
	Unified        string
	HasDifferences bool
	OldLabel       string
	NewLabel       string
}

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultOptions returns the options used for remote-vs-local diffs.
func DefaultOptions() Options {
	return Options{
		OldLabel: "remote",
		NewLabel: "local",
		Context:  3,
	}
}

// Compute computes a unified diff between two documents.
func Compute(oldDoc, newDoc string, opts Options) (*Result, error) {
	diff := difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	return &Result{
		Unified:        unified,
		HasDifferences: unified != "",
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}, nil
}

// Project diffs every file of a project against the remote script. Files
// are returned in a stable order: configuration, description, main script,
// then modules by name. A module present on only one side diffs against
// the empty document.
func Project(remote *api.ScriptInfo, local *project.Snapshot, opts Options) ([]*Result, error) {
	remoteCfg, err := renderConfiguration(&project.Configuration{
		ScriptName: remote.Name,
		ScriptID:   local.Configuration.ScriptID,
		Whitelist:  remote.Whitelist,
		IsPublic:   remote.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	localCfg, err := renderConfiguration(local.Configuration)
	if err != nil {
		return nil, err
	}

	type pair struct {
		path          string
		remote, local string
	}

	pairs := []pair{
		{project.ConfigurationFile, remoteCfg, localCfg},
		{project.DescriptionFile, remote.Description, local.Description},
		{project.MainScriptFile, remote.Source.Main, local.MainSource},
	}

	for _, name := range moduleNames(remote.Source.Modules, local.Modules) {
		path := filepath.ToSlash(filepath.Join(project.ModuleDirectory, name+project.ModuleExtension))
		pairs = append(pairs, pair{path, remote.Source.Modules[name], local.Modules[name]})
	}

	results := make([]*Result, 0, len(pairs))

	for _, p := range pairs {
		fileOpts := opts
		fileOpts.OldLabel = opts.OldLabel + "/" + p.path
		fileOpts.NewLabel = opts.NewLabel + "/" + p.path

		r, err := Compute(p.remote, p.local, fileOpts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.path, err)
		}

		r.Path = p.path
		results = append(results, r)
	}

	return results, nil
}

// Changed returns the results that have differences.
func Changed(results []*Result) []*Result {
	var out []*Result

	for _, r := range results {
		if r.HasDifferences {
			out = append(out, r)
		}
	}

	return out
}

func moduleNames(a, b map[string]string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))

	for name := range a {
		seen[name] = struct{}{}
	}

	for name := range b {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func renderConfiguration(cfg *project.Configuration) (string, error) {
	out := *cfg
	if out.Whitelist == nil {
		out.Whitelist = []string{}
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling configuration: %w", err)
	}

	return string(data), nil
}

// Write writes every changed result to w with optional ANSI colors.
func Write(w io.Writer, results []*Result, color bool) {
	changed := Changed(results)
	if len(changed) == 0 {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, r := range changed {
		for _, line := range strings.Split(strings.TrimSuffix(r.Unified, "\n"), "\n") {
			if color {
				writeColorLine(w, line)
			} else {
				_, _ = fmt.Fprintln(w, line)
			}
		}
	}
}

// writeColorLine writes a single diff line with ANSI color codes.
func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// splitLines splits a string into lines for diff processing. Every element
// ends in a newline, including the last, so that a missing final newline
// does not garble the unified output.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}

	return lines
}
