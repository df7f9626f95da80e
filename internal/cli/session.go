package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/techs-sus/fumo/internal/api"
	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/logging"
	"github.com/techs-sus/fumo/internal/output"
	"github.com/techs-sus/fumo/internal/secrets"
)

// formatText is the human-readable output format of view and list.
const formatText = "text"

// newClient builds an API client for the stored session.
func newClient(ctx context.Context) (*api.Client, error) {
	cfg := config.FromContext(ctx)

	path, err := secrets.Resolve(cfg.SecretsFile)
	if err != nil {
		return nil, err
	}

	s, err := secrets.Load(path)
	if err != nil {
		return nil, err
	}

	if err := s.Check(time.Now()); err != nil {
		return nil, fmt.Errorf("%w; run \"fumo login\" again", err)
	}

	return clientFor(ctx, s.Session), nil
}

func clientFor(ctx context.Context, session string) *api.Client {
	cfg := config.FromContext(ctx)

	return api.NewClient(cfg.BaseURL, session,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithLogger(logging.FromContext(ctx)),
	)
}

// registerDirFlag adds the --dir flag selecting the project directory.
func registerDirFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVarP(dir, "dir", "C", ".", "project directory")
}

// registerFormatFlag adds the --format flag for commands with
// machine-readable output.
func registerFormatFlag(cmd *cobra.Command, format *string) {
	formats := append([]string{formatText}, output.DefaultRegistry().Formats()...)

	cmd.Flags().StringVarP(format, "format", "o", formatText, fmt.Sprintf("output format: %v", formats))
}

// checkFormat rejects formats that are neither text nor registered.
func checkFormat(format string) error {
	if format == formatText {
		return nil
	}

	if _, err := output.DefaultRegistry().Serializer(format); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	return nil
}

// render writes v to cmd's output in a registered machine-readable format.
func render(cmd *cobra.Command, format string, v any) error {
	return output.DefaultRegistry().Render(output.NewStdoutWriter(cmd.OutOrStdout()), format, v)
}
