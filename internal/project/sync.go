package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/techs-sus/fumo/internal/api"
)

// EditorReader fetches the editable state of a remote script.
type EditorReader interface {
	GetEditor(ctx context.Context, scriptID string) (*api.Editor, error)
}

// EditorWriter applies field-level updates to a remote script.
type EditorWriter interface {
	SetEditor(ctx context.Context, scriptID string, updates []api.EditorUpdate) error
}

// Pull scaffolds a new project at dir and hydrates it from the remote script
// scriptID.
func Pull(ctx context.Context, remote EditorReader, scriptID, dir string) error {
	if err := Init(dir); err != nil {
		return fmt.Errorf("failed initializing project: %w", err)
	}

	editor, err := remote.GetEditor(ctx, scriptID)
	if err != nil {
		return err
	}

	info := editor.ScriptInfo

	if err := WriteFile(filepath.Join(dir, DescriptionFile), info.Description); err != nil {
		return err
	}

	if err := WriteFile(filepath.Join(dir, MainScriptFile), info.Source.Main); err != nil {
		return err
	}

	cfg := &Configuration{
		ScriptName: info.Name,
		ScriptID:   scriptID,
		Whitelist:  info.Whitelist,
		IsPublic:   info.IsPublic,
	}

	if err := WriteConfiguration(dir, cfg); err != nil {
		return err
	}

	for name, source := range info.Source.Modules {
		path := filepath.Join(dir, ModuleDirectory, name+ModuleExtension)
		if err := WriteFile(path, source); err != nil {
			return err
		}
	}

	return nil
}

// Snapshot is the full local state of a project.
type Snapshot struct {
	Configuration *Configuration
	Description   string
	MainSource    string
	Modules       map[string]string
}

// EditorUpdates returns the updates that replace every remote field with the
// snapshot's content. Modules are emitted in name order.
func (s *Snapshot) EditorUpdates() []api.EditorUpdate {
	updates := []api.EditorUpdate{
		api.Description(s.Description),
		api.MainSource(s.MainSource),
	}

	updates = append(updates, s.Configuration.EditorUpdates()...)

	names := make([]string, 0, len(s.Modules))
	for name := range s.Modules {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		updates = append(updates, api.Module(name, s.Modules[name]))
	}

	return updates
}

// Load reads the whole project at dir. Entries of the module directory whose
// type cannot be determined are skipped with a warning; only regular files
// with ModuleExtension become modules.
func Load(dir string, logger *slog.Logger) (*Snapshot, error) {
	cfg, err := ReadConfiguration(dir)
	if err != nil {
		return nil, err
	}

	description, err := ReadFile(filepath.Join(dir, DescriptionFile))
	if err != nil {
		return nil, err
	}

	main, err := ReadFile(filepath.Join(dir, MainScriptFile))
	if err != nil {
		return nil, err
	}

	modules, err := readModules(filepath.Join(dir, ModuleDirectory), logger)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Configuration: cfg,
		Description:   description,
		MainSource:    main,
		Modules:       modules,
	}, nil
}

func readModules(pkg string, logger *slog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(pkg)
	if err != nil {
		return nil, fmt.Errorf("failed reading directory %s: %w", pkg, err)
	}

	modules := make(map[string]string, len(entries))

	for _, entry := range entries {
		path := filepath.Join(pkg, entry.Name())

		info, err := entry.Info()
		if err != nil {
			logger.Warn("failed getting file type, skipping", slog.String("path", path), slog.Any("error", err))
			continue
		}

		if !info.Mode().IsRegular() {
			continue
		}

		name, ok := ModuleName(entry.Name())
		if !ok || name+ModuleExtension != entry.Name() {
			continue
		}

		source, err := ReadFile(path)
		if err != nil {
			return nil, err
		}

		modules[name] = source
	}

	return modules, nil
}

// Push replaces every field of the linked remote script with the local
// project at dir.
func Push(ctx context.Context, remote EditorWriter, dir string, logger *slog.Logger) error {
	snap, err := Load(dir, logger)
	if err != nil {
		return err
	}

	logger.Info("pushing project",
		slog.String("script", snap.Configuration.ScriptID),
		slog.Int("modules", len(snap.Modules)),
	)

	return remote.SetEditor(ctx, snap.Configuration.ScriptID, snap.EditorUpdates())
}
