package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/techs-sus/fumo/internal/config"
	"github.com/techs-sus/fumo/internal/secrets"
)

type loginOptions struct {
	session    string
	skipVerify bool
}

func newLoginCommand() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to fumosclub (overwrites existing secrets)",
		Long: `Store the fumosclub session cookie used by every other command.

Log in on https://fumosclubv1.vercel.app with a browser, copy the value of
the "session" cookie and paste it at the prompt (input is hidden), or pass
it with --session. The session is checked against the service before it
is saved unless --skip-verify is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.session, "session", "", "session cookie value (prompted for when empty)")
	f.BoolVar(&opts.skipVerify, "skip-verify", false, "save the session without checking it")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	ctx := cmd.Context()

	session := opts.session
	if session == "" {
		var err error

		session, err = promptSession(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	session = strings.TrimSpace(session)
	if session == "" {
		return &ExitError{Code: 2, Err: errors.New("session must not be empty")}
	}

	s := &secrets.Secrets{Session: session}
	if err := s.Check(time.Now()); err != nil {
		return err
	}

	name := ""

	if !opts.skipVerify {
		details, err := clientFor(ctx, session).GetDetails(ctx)
		if err != nil {
			return fmt.Errorf("verifying session: %w", err)
		}

		name = details.Name
	}

	path, err := secrets.Resolve(config.FromContext(ctx).SecretsFile)
	if err != nil {
		return err
	}

	if err := secrets.Save(path, s); err != nil {
		return err
	}

	if name != "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", name)
	} else {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "session saved")
	}

	return err
}

// promptSession reads the session from in. A terminal gets a hidden
// prompt; anything else is read up to the first newline.
func promptSession(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(prompt, "session cookie: ")

		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("reading session: %w", err)
		}

		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading session: %w", err)
	}

	return line, nil
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := secrets.Resolve(config.FromContext(cmd.Context()).SecretsFile)
			if err != nil {
				return err
			}

			if err := secrets.Remove(path); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "logged out")

			return err
		},
	}
}
