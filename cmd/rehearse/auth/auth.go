// Package authcmder provides the login and logout commands.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/credentials"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

const loginLongDesc string = `Log in to the interview backend.

The session token returned by the backend is stored in credentials.toml in
the .rehearse/ directory and sent with every later request.

The password is read from stdin when it is piped, otherwise it is prompted
for with hidden input.

Examples:
  rehearse login ada
  echo "$PASSWORD" | rehearse login ada`

const loginShortDesc string = "Log in to the interview backend"

func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: loginShortDesc,
		Long:  loginLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			return runLogin(cmd, rt, args[0])
		},
	}

	app.AddClientFlags(cmd)

	return cmd
}

func runLogin(cmd *cobra.Command, rt *app.Runtime, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username cannot be empty")
	}

	password, err := readPassword(cmd.InOrStdin(), cmd.OutOrStdout(), username)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	var resp *interview.LoginResponse
	err = cliui.Step(cmd.OutOrStdout(), "Authenticating with "+rt.Client.BaseURL(), func() error {
		var err error
		resp, err = rt.Client.Login(cmd.Context(), username, password)
		return err
	})
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	if err := rt.Credentials.SetSession(credentials.SessionCredential{
		Token:    resp.Token,
		Username: username,
		UserID:   resp.UserID,
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Logged in as %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(username),
	)
	return nil
}

// readPassword reads a password from in. If in is a terminal it prompts
// with hidden input, otherwise it reads the first line.
func readPassword(in io.Reader, out io.Writer, username string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(out, "Password for %s: ", username)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no password received on stdin")
}

const logoutShortDesc string = "Log out and forget the stored token"

func NewLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: logoutShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			// The local token is cleared even when the backend call fails.
			if err := rt.Client.Logout(cmd.Context()); err != nil {
				rt.Logger.Warn("backend logout failed", "error", err)
			}
			if err := rt.Credentials.Clear(); err != nil {
				return err
			}
			if err := rt.Dotdir.ClearCurrent(rt.ConfigDir); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Logged out.\n\n", cliui.SuccessMark)
			return nil
		},
	}

	app.AddClientFlags(cmd)

	return cmd
}
