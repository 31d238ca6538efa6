package sessioncmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/dotdir"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/utils"
)

const titleWidth = 40

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your interview sessions",
		Args:    cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *app.Runtime, _ []string) error {
			sessions, err := rt.Client.ListSessions(cmd.Context())
			if err != nil {
				return err
			}

			current, err := rt.Dotdir.LoadCurrent(rt.ConfigDir)
			if err != nil {
				return err
			}

			printSessions(cmd.OutOrStdout(), sessions, current)
			return nil
		}),
	}

	app.AddClientFlags(cmd)

	return cmd
}

func printSessions(w io.Writer, sessions []interview.Session, current *dotdir.CurrentSession) {
	if len(sessions) == 0 {
		fmt.Fprintf(w, "\n  %s No sessions yet. Create one with: rehearse session create --position <name>\n\n",
			cliui.DimStyle.Render("●"))
		return
	}

	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Sessions"))
	for _, s := range sessions {
		marker := " "
		if current != nil && current.SessionID == s.ID {
			marker = cliui.SuccessMark
		}

		progress := fmt.Sprintf("%d/%d", s.AnsweredQuestions, s.TotalQuestions)
		line := fmt.Sprintf("%s %s  %s  %s  %s",
			marker,
			cliui.IDStyle.Render(fmt.Sprintf("#%-4d", s.ID)),
			cliui.NameStyle.Render(padRight(utils.Truncate(utils.Oneline(s.DisplayName()), titleWidth), titleWidth)),
			cliui.Status(s.Status.String()),
			cliui.DimStyle.Render(progress),
		)
		if s.Status.IsCompleted() {
			line += "  " + cliui.Score(s.OverallScore)
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
