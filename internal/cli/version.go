package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/version"
)

func newVersionCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the version, git commit, build date, Go version, and platform.",
		Args:  cobra.NoArgs,
		// Override parent PersistentPreRunE: version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			info := version.GetInfo()

			if format != formatText {
				return render(cmd, format, info)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	registerFormatFlag(cmd, &format)

	return cmd
}
