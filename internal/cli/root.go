// Package cli implements the cobra command tree for fumo.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/logging"
	"github.com/techs-sus/fumo/internal/version"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		slog.Error(err.Error())

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "fumo",
		Short: "Sync local script projects with fumosclub",
		Long: `fumo is a CLI tool built for fumosclub <https://fumosclubv1.vercel.app>.

It keeps a local project directory (a main script, a README, a set of
modules under pkg/ and a fumosync.json metadata file) in sync with one
remote script: pull it down, push it up, or watch the directory and
push every change as it happens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("configFile", cfg.ConfigFile),
			)

			if version.GetInfo().Prerelease() {
				logger.Warn("fumo is alpha software; please report bugs to https://github.com/techs-sus/fumo")
			}

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .fumo.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.String("log-file", "", "write logs to a size-rotated file instead of stderr")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newViewCommand(),
		newListCommand(),
		newInitCommand(),
		newPullCommand(),
		newPushCommand(),
		newWatchCommand(),
		newGenerateCommand(),
		newDiffCommand(),
		newConfigCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
