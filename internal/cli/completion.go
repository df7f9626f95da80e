package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/logging"
)

func newCompletionCommand() *cobra.Command {
	var noDescriptions bool

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fumo.

Script ids for "fumo pull" and "fumo generate --id" are completed from the
scripts of the logged in account.

To load completions:

Bash:
  $ source <(fumo completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fumo completion bash > /etc/bash_completion.d/fumo

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fumo completion zsh > "${fpath[1]}/_fumo"

Fish:
  $ fumo completion fish > ~/.config/fish/completions/fumo.fish

PowerShell:
  PS> fumo completion powershell | Out-String | Invoke-Expression
`,
		// Override parent PersistentPreRunE: completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, !noDescriptions)
			case "zsh":
				if noDescriptions {
					return root.GenZshCompletionNoDesc(w)
				}

				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, !noDescriptions)
			case "powershell":
				if noDescriptions {
					return root.GenPowerShellCompletion(w)
				}

				return root.GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false, "disable completion descriptions")

	return cmd
}

// completeScriptIDs offers the ids of the account's editable scripts, with
// the script name as description. Completion runs without the root's
// PersistentPreRunE, so the configuration is loaded here.
func completeScriptIDs(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load(cmd, "")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := config.NewContext(cmd.Context(), cfg)
	ctx = logging.NewContext(ctx, logging.SetupWithWriter(cfg, io.Discard))

	client, err := newClient(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	list, err := client.ListScripts(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ids := make([]string, 0, len(list.Scripts))

	for _, s := range list.Scripts {
		if s.Editable {
			ids = append(ids, fmt.Sprintf("%s\t%s", s.ID, s.Name))
		}
	}

	return ids, cobra.ShellCompDirectiveNoFileComp
}
