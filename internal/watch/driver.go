package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/techs-sus/fumo/internal/api"
	"github.com/techs-sus/fumo/internal/project"
)

// Remote applies partial updates to a remote script.
type Remote interface {
	SetEditor(ctx context.Context, scriptID string, updates []api.EditorUpdate) error
}

// Driver runs sync cycles: one drained batch, one remote call.
type Driver struct {
	root    string
	remote  Remote
	logger  *slog.Logger
	requeue bool

	// failed holds the last failed batch when requeue is set.
	failed []Update
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithRequeueOnFailure keeps the batch of a failed cycle and merges it into
// the next drained batch instead of dropping it.
func WithRequeueOnFailure(requeue bool) DriverOption {
	return func(d *Driver) {
		d.requeue = requeue
	}
}

// NewDriver creates a driver for the project at root.
func NewDriver(root string, remote Remote, logger *slog.Logger, opts ...DriverOption) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Driver{
		root:   root,
		remote: remote,
		logger: logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run receives drained batches and syncs each one until ctx is cancelled.
// A failed cycle is logged and does not stop the driver.
func (d *Driver) Run(ctx context.Context, drain <-chan []Update) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case batch := <-drain:
			if len(d.failed) > 0 {
				retry := d.failed
				d.failed = nil

				for _, u := range batch {
					retry, _ = merge(retry, u)
				}

				batch = retry
			}

			if err := d.Cycle(ctx, batch); err != nil {
				if ctx.Err() != nil {
					return nil
				}

				d.logger.Warn("error whilst processing", slog.Any("error", err))

				if d.requeue {
					d.failed = batch
				}

				continue
			}

			d.logger.Info("synced successfully")
		}
	}
}

// Cycle resolves batch against the current files on disk and sends it as a
// single partial update. An empty batch is a no-op.
func (d *Driver) Cycle(ctx context.Context, batch []Update) error {
	if len(batch) == 0 {
		return nil
	}

	d.logger.Info("processing updates", slog.Int("count", len(batch)))

	cfg, err := project.ReadConfiguration(d.root)
	if err != nil {
		return err
	}

	updates := make([]api.EditorUpdate, 0, len(batch)+2)

	for _, u := range batch {
		resolved, ok, err := d.resolve(u)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		updates = append(updates, editorUpdates(resolved, cfg)...)
	}

	if len(updates) == 0 {
		d.logger.Debug("nothing to sync")
		return nil
	}

	if err := d.remote.SetEditor(ctx, cfg.ScriptID, updates); err != nil {
		return fmt.Errorf("syncing %d updates: %w", len(updates), err)
	}

	return nil
}

// resolve fills in u.Source from disk. It reports false for a module whose
// path has no file name.
func (d *Driver) resolve(u Update) (Update, bool, error) {
	var path string

	switch u.Role {
	case project.RoleMainSource:
		path = project.MainScriptFile
	case project.RoleDescription:
		path = project.DescriptionFile
	case project.RoleProjectConfiguration:
		return u, true, nil
	case project.RoleModule:
		if _, ok := project.ModuleName(u.Path); !ok {
			d.logger.Warn("failed getting module name, skipping", slog.String("path", u.Path))
			return u, false, nil
		}

		path = u.Path
	default:
		return u, false, nil
	}

	source, err := project.ReadFile(filepath.Join(d.root, path))
	if err != nil {
		return u, false, err
	}

	u.Source = source

	return u, true, nil
}

// editorUpdates expands a resolved update into remote field updates. The
// configuration fields come from cfg, read at the start of the cycle.
func editorUpdates(u Update, cfg *project.Configuration) []api.EditorUpdate {
	switch u.Role {
	case project.RoleMainSource:
		return []api.EditorUpdate{api.MainSource(u.Source)}
	case project.RoleDescription:
		return []api.EditorUpdate{api.Description(u.Source)}
	case project.RoleProjectConfiguration:
		return cfg.EditorUpdates()
	case project.RoleModule:
		name, _ := project.ModuleName(u.Path)
		return []api.EditorUpdate{api.Module(name, u.Source)}
	default:
		return nil
	}
}
