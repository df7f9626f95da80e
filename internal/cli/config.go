package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/techs-sus/fumo/internal/config"
)

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
FUMO_* environment variables and flags, in the config file's YAML format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}

			w := cmd.OutOrStdout()

			if cfg.ConfigFile != "" {
				if _, err := fmt.Fprintf(w, "# %s\n", cfg.ConfigFile); err != nil {
					return err
				}
			}

			_, err = w.Write(data)

			return err
		},
	}
}
