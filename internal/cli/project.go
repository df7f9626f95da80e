package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/logging"
	"github.com/techs-sus/fumo/internal/project"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <project-directory>",
		Short: "Initialize a project in the specified directory",
		Long: `Create a new project directory with a main script, a README, an empty
pkg/ module directory, editor settings and a fumosync.json whose script id
is "???". Edit the id (or use "fumo pull" instead) before pushing.

The directory must not exist yet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.Init(args[0]); err != nil {
				return err
			}

			logging.FromContext(cmd.Context()).Info("initialized project", slog.String("dir", args[0]))

			return nil
		},
	}
}

func newPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull <script-id> <project-directory>",
		Short: "Pull down a script into a new project directory",
		Long: `Create a new project directory and fill it with the current state of an
editable remote script: its description, main source, modules and
metadata.`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return completeScriptIDs(cmd, args, toComplete)
			}

			return nil, cobra.ShellCompDirectiveFilterDirs
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			if err := project.Pull(ctx, client, args[0], args[1]); err != nil {
				return err
			}

			logging.FromContext(ctx).Info("pulled script", slog.String("script", args[0]), slog.String("dir", args[1]))

			return nil
		},
	}
}

func newPushCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the project to fumosclub",
		Long: `Replace every field of the remote script linked in fumosync.json with the
local project: name, whitelist, publicity, description, main source and
every module under pkg/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			logger := logging.FromContext(ctx)

			if err := project.Push(ctx, client, dir, logger); err != nil {
				return err
			}

			logger.Info("synced successfully")

			return nil
		},
	}

	registerDirFlag(cmd, &dir)

	return cmd
}

func newGenerateCommand() *cobra.Command {
	var (
		id  string
		dir string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a key for a script",
		Long: `Generate a loader key for a script under the logged in account and print
it. The script id defaults to the one in the project's fumosync.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, err := newClient(ctx)
			if err != nil {
				return err
			}

			if id == "" {
				cfg, err := project.ReadConfiguration(dir)
				if err != nil {
					return err
				}

				id = cfg.ScriptID
			}

			key, err := client.GenerateKey(ctx, id)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)

			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "script id (default: scriptId from fumosync.json)")
	registerDirFlag(cmd, &dir)

	_ = cmd.RegisterFlagCompletionFunc("id", completeScriptIDs)

	return cmd
}
