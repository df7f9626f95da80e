package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/diff"
	"github.com/techs-sus/fumo/internal/logging"
	"github.com/techs-sus/fumo/internal/project"
)

type diffOptions struct {
	dir      string
	context  int
	exitCode bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show differences between the remote script and the local project",
		Long: `Fetch the remote script linked in fumosync.json and print a unified diff
for every project file that differs from it. Lines prefixed with "-" are
remote, lines prefixed with "+" are local, so the output shows what
"fumo push" would change.

Use --exit-code to exit with status 1 when differences are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiff(cmd, opts)
		},
	}

	f := cmd.Flags()
	registerDirFlag(cmd, &opts.dir)
	f.IntVar(&opts.context, "context", 3, "lines of context around each change")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with status 1 when differences are found")

	return cmd
}

func runDiff(cmd *cobra.Command, opts *diffOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	local, err := project.Load(opts.dir, logging.FromContext(ctx))
	if err != nil {
		return err
	}

	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	editor, err := client.GetEditor(ctx, local.Configuration.ScriptID)
	if err != nil {
		return err
	}

	diffOpts := diff.DefaultOptions()
	diffOpts.Context = opts.context

	results, err := diff.Project(&editor.ScriptInfo, local, diffOpts)
	if err != nil {
		return err
	}

	diff.Write(cmd.OutOrStdout(), results, !cfg.NoColor)

	if changed := diff.Changed(results); opts.exitCode && len(changed) > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d file(s) differ", len(changed))}
	}

	return nil
}
