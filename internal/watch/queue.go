package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/techs-sus/fumo/internal/project"
)

// Queue owns the pending updates of a watch session. Only the goroutine
// running Run touches them; the driver receives the whole pending set in a
// single handoff, so it never observes a half-applied batch.
type Queue struct {
	root    string
	ignore  []string
	logger  *slog.Logger
	handoff chan []Update
}

// NewQueue creates a queue for the project at root. Project-relative paths
// matching any of the ignore globs are dropped before classification.
func NewQueue(root string, ignore []string, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}

	return &Queue{
		root:    root,
		ignore:  ignore,
		logger:  logger,
		handoff: make(chan []Update),
	}
}

// Drain returns the channel the pending set is offered on. A receive takes
// every pending update at once and leaves the queue empty. Nothing is
// offered while the queue is empty.
func (q *Queue) Drain() <-chan []Update {
	return q.handoff
}

// Run classifies incoming batches until ctx is cancelled.
func (q *Queue) Run(ctx context.Context, batches <-chan []Event) error {
	var pending []Update

	for {
		var offer chan []Update
		if len(pending) > 0 {
			offer = q.handoff
		}

		select {
		case <-ctx.Done():
			return nil

		case batch := <-batches:
			before := len(pending)
			pending = q.enqueue(pending, batch)

			if len(pending) > before {
				q.logger.Debug("queued updates", slog.Int("pending", len(pending)))
			}

		case offer <- pending:
			pending = nil
		}
	}
}

// enqueue classifies every path of every relevant event in batch and merges
// the resulting updates into pending.
func (q *Queue) enqueue(pending []Update, batch []Event) []Update {
	for _, ev := range batch {
		if !ev.Kind.Relevant() {
			q.logger.Debug("skipping event", slog.String("kind", ev.Kind.String()), slog.Any("paths", ev.Paths))
			continue
		}

		for _, path := range ev.Paths {
			u, ok := q.classify(path)
			if !ok {
				continue
			}

			pending, _ = merge(pending, u)
		}
	}

	return pending
}

func (q *Queue) classify(path string) (Update, bool) {
	rel, err := project.DiffPaths(path, q.root)
	if err != nil {
		q.logger.Warn("skipping event", slog.String("path", path), slog.Any("error", err))
		return Update{}, false
	}

	if pattern, ok := matchIgnore(q.ignore, rel); ok {
		q.logger.Debug("ignoring path", slog.String("path", rel), slog.String("pattern", pattern))
		return Update{}, false
	}

	role := project.Classify(q.root, rel)
	if role == project.RoleNone {
		q.logger.Debug("ignoring path", slog.String("path", rel))
		return Update{}, false
	}

	u := Update{Role: role}

	if role == project.RoleModule {
		u.Path = rel
		q.logger.Info("got package update", slog.String("path", rel))
	} else {
		q.logger.Info("got " + role.String() + " update")
	}

	return u, true
}

// matchIgnore returns the first glob in patterns matching the
// project-relative path rel.
func matchIgnore(patterns []string, rel string) (string, bool) {
	slashed := filepath.ToSlash(rel)

	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return pattern, true
		}
	}

	return "", false
}
