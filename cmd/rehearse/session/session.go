// Package sessioncmder provides the session command for managing interview
// sessions on the backend.
package sessioncmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
)

const sessionLongDesc string = `Manage interview sessions.

A session moves from CREATED to IN_PROGRESS when started and to COMPLETED
when finished, at which point the backend generates its report.

"rehearse session start" also selects the session, so "rehearse next" and
"rehearse answer" can be run without --session.

Examples:
  rehearse session positions
  rehearse session create --position "Go Developer"
  rehearse session start 12
  rehearse session list
  rehearse session show 12
  rehearse session finish
  rehearse session delete 12`

const sessionShortDesc string = "Manage interview sessions"

func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   sessionShortDesc,
		Long:    sessionLongDesc,
	}

	cmd.AddCommand(newPositionsCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newFinishCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}

// withRuntime adapts a session subcommand body to cobra, owning the
// Runtime's lifetime.
func withRuntime(fn func(cmd *cobra.Command, rt *app.Runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := app.FromCommand(cmd)
		if err != nil {
			return err
		}
		defer rt.Close(cmd.Context())

		return fn(cmd, rt, args)
	}
}

// sessionArg resolves an optional session id argument, falling back to the
// selected session.
func sessionArg(rt *app.Runtime, args []string) (int64, error) {
	if len(args) == 0 {
		return rt.SessionID(0)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", args[0])
	}
	return id, nil
}
