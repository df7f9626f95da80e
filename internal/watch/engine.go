package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/project"
)

// Options configures a watch session.
type Options struct {
	// Dir is the project directory. It is canonicalized once at start.
	Dir string

	// Debounce is the quiet period before a batch of events is delivered.
	Debounce time.Duration

	// Ignore holds doublestar globs of project-relative paths to skip.
	Ignore []string

	// RequeueOnFailure carries a failed batch over into the next cycle.
	RequeueOnFailure bool

	// Logger is used for structured logging.
	Logger *slog.Logger
}

// DefaultOptions returns the watch options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Dir:      ".",
		Debounce: config.DefaultDebounce,
		Ignore:   append([]string(nil), config.DefaultIgnore...),
		Logger:   slog.Default(),
	}
}

// Run pushes the whole project once, then keeps the remote script in sync
// with every change under opts.Dir until ctx is cancelled. Failures before
// the watch starts are returned; failed sync cycles are only logged.
func Run(ctx context.Context, remote Remote, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root, err := canonicalize(opts.Dir)
	if err != nil {
		return err
	}

	if err := project.Push(ctx, remote, root, logger); err != nil {
		return fmt.Errorf("initial push: %w", err)
	}

	watcher, err := NewWatcher(root, opts.Debounce, logger, WithIgnore(opts.Ignore))
	if err != nil {
		return err
	}

	queue := NewQueue(root, opts.Ignore, logger)
	driver := NewDriver(root, remote, logger, WithRequeueOnFailure(opts.RequeueOnFailure))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return queue.Run(gctx, watcher.Batches()) })
	g.Go(func() error { return driver.Run(gctx, queue.Drain()) })

	logger.Info("watcher is ready to receive events",
		slog.String("dir", root),
		slog.Duration("debounce", opts.Debounce),
	)

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutting down watcher")

	return nil
}

func canonicalize(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("reading project directory: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("project path %s is not a directory", root)
	}

	return root, nil
}
