package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/logging"
	"github.com/techs-sus/fumo/internal/watch"
)

func newWatchCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the project for changes and push them to fumosclub",
		Long: `Push the whole project once, then watch it and push every change.

The project root and pkg/ are watched. File events are debounced so that
a burst of saves becomes one batch, and each batch becomes exactly one
partial update of the remote script that carries only the fields that
changed. Changes made while an update is in flight are queued and sent
with the next one.

Paths matching the watch.ignore globs (editor swap and backup files by
default) never trigger an update. A failed update is logged and dropped;
set --requeue-on-failure to retry it with the next batch instead.

Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			cfg := config.FromContext(ctx)

			opts := watch.DefaultOptions()
			opts.Dir = dir
			opts.Debounce = cfg.Watch.Debounce
			opts.Ignore = cfg.Watch.Ignore
			opts.RequeueOnFailure = cfg.Watch.RequeueOnFailure
			opts.Logger = logging.FromContext(ctx)

			return watch.Run(ctx, client, opts)
		},
	}

	registerDirFlag(cmd, &dir)

	f := cmd.Flags()
	f.Duration("debounce", config.DefaultDebounce, "quiet period before a batch of changes is pushed")
	f.Bool("requeue-on-failure", false, "retry a failed batch together with the next one")

	return cmd
}
