package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newViewCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show information about the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			details, err := client.GetDetails(cmd.Context())
			if err != nil {
				return err
			}

			if format != formatText {
				return render(cmd, format, details)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s - %s - %s\n%d currently logged in sessions\n",
				details.Name, details.RobloxUser, details.ID, details.NumSessions)

			return err
		},
	}

	registerFormatFlag(cmd, &format)

	return cmd
}

func newListCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all scripts visible to the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			list, err := client.ListScripts(cmd.Context())
			if err != nil {
				return err
			}

			if format != formatText {
				return render(cmd, format, list.Scripts)
			}

			w := cmd.OutOrStdout()

			for _, s := range list.Scripts {
				favorite := "☆"
				if s.IsFavorite {
					favorite = "★"
				}

				lock := "🔐"
				if s.Editable {
					lock = "🔓"
				}

				if _, err := fmt.Fprintf(w, "%s %s (%s) by %s %s\n", favorite, s.Name, s.ID, s.Creator, lock); err != nil {
					return err
				}
			}

			return nil
		},
	}

	registerFormatFlag(cmd, &format)

	return cmd
}
