package sessioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a session",
		Args:    cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, rt *app.Runtime, args []string) error {
			id, err := sessionArg(rt, args)
			if err != nil {
				return err
			}

			if err := rt.Client.DeleteSession(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting session: %w", err)
			}

			driver, err := rt.Storage(cmd.Context())
			if err != nil {
				return err
			}
			if err := driver.DeleteSession(cmd.Context(), id); err != nil {
				return err
			}

			current, err := rt.Dotdir.LoadCurrent(rt.ConfigDir)
			if err != nil {
				return err
			}
			if current != nil && current.SessionID == id {
				if err := rt.Dotdir.ClearCurrent(rt.ConfigDir); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Deleted session %s\n\n",
				cliui.SuccessMark, cliui.IDStyle.Render(fmt.Sprintf("#%d", id)))
			return nil
		}),
	}

	app.AddClientFlags(cmd)

	return cmd
}
