package sessioncmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/dotdir"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start a session and select it",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, rt *app.Runtime, args []string) error {
			id, err := sessionArg(rt, args)
			if err != nil {
				return err
			}

			session, err := rt.Client.StartSession(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("starting session: %w", err)
			}

			if err := rt.Dotdir.SaveCurrent(&dotdir.CurrentSession{
				SessionID:  session.ID,
				Title:      session.DisplayName(),
				SelectedAt: time.Now(),
			}, rt.ConfigDir); err != nil {
				return err
			}
			if err := rt.RecordSession(cmd.Context(), session); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Started %s %s\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(session.DisplayName()),
				cliui.Status(session.Status.String()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n\n", cliui.DimStyle.Render("Get your first question with: rehearse next"))
			return nil
		}),
	}

	app.AddClientFlags(cmd)

	return cmd
}

func newFinishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finish [id]",
		Short: "Finish a session and generate its report",
		Args:  cobra.MaximumNArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, rt *app.Runtime, args []string) error {
			id, err := sessionArg(rt, args)
			if err != nil {
				return err
			}

			session, err := rt.Client.FinishSession(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("finishing session: %w", err)
			}
			if err := rt.RecordSession(cmd.Context(), session); err != nil {
				return err
			}

			current, err := rt.Dotdir.LoadCurrent(rt.ConfigDir)
			if err != nil {
				return err
			}
			if current != nil && current.SessionID == session.ID {
				if err := rt.Dotdir.ClearCurrent(rt.ConfigDir); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Finished %s %s\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(session.DisplayName()),
				cliui.Status(session.Status.String()),
			)
			if session.CanViewReport() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n\n",
					cliui.DimStyle.Render(fmt.Sprintf("View the report with: rehearse session show %d", session.ID)),
				)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n\n", cliui.DimStyle.Render("The report is being generated."))
			}
			return nil
		}),
	}

	app.AddClientFlags(cmd)

	return cmd
}
