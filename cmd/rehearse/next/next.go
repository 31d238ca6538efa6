// Package nextcmder provides the next command, which streams the next
// interview question of a session.
package nextcmder

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/question"
)

const nextLongDesc string = `Stream the next question of an interview session.

The question is printed as the backend generates it. Once complete it is
rendered as markdown together with its question id, which "rehearse answer"
uses to submit your answer.

The session must be in progress. Without --session the session selected by
"rehearse session start" is used.

Examples:
  rehearse next
  rehearse next --session 12
  rehearse next --raw`

const nextShortDesc string = "Stream the next interview question"

type nextCommander struct {
	sessionID int64
	raw       bool
}

func NewNextCmd() *cobra.Command {
	cmder := &nextCommander{}

	cmd := &cobra.Command{
		Use:   "next",
		Short: nextShortDesc,
		Long:  nextLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			return cmder.run(cmd, rt)
		},
	}

	cmd.Flags().Int64Var(&cmder.sessionID, "session", 0, "Session id (default: the selected session)")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Only print the streamed text, without the rendered question")
	app.AddClientFlags(cmd)

	return cmd
}

func (c *nextCommander) run(cmd *cobra.Command, rt *app.Runtime) error {
	id, err := rt.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	session, err := rt.Client.GetSession(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !session.Status.IsInProgress() {
		return fmt.Errorf("session %d is %s, start it with: rehearse session start %d", session.ID, session.Status, session.ID)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n  %s %s\n\n", cliui.HeaderStyle.Render("Question"), cliui.DimStyle.Render(session.DisplayName()))

	started := time.Now()
	chunks := 0
	outcome, err := rt.Streamer.NextQuestion(cmd.Context(), session, func(delta string) {
		chunks++
		fmt.Fprint(w, delta)
	})
	if chunks > 0 {
		fmt.Fprintln(w)
	}
	if err != nil {
		return fmt.Errorf("streaming question: %w", err)
	}

	if err := rt.RecordQuestion(cmd.Context(), session, outcome, started, chunks); err != nil {
		return err
	}

	if !c.raw {
		printQuestion(w, outcome)
	}
	printFooter(w, session, outcome, time.Since(started))
	return nil
}

func printQuestion(w io.Writer, outcome question.Outcome) {
	rendered, err := cliui.RenderMarkdown(outcome.Text)
	if err != nil {
		fmt.Fprintf(w, "\n%s\n", outcome.Text)
		return
	}
	fmt.Fprint(w, rendered)
}

func printFooter(w io.Writer, session *interview.Session, outcome question.Outcome, elapsed time.Duration) {
	if session.CurrentQuestionID == nil {
		fmt.Fprintf(w, "\n  %s %s\n\n", cliui.FailMark,
			cliui.WarnStyle.Render("The question id could not be determined; answers cannot be submitted for it yet."))
		return
	}

	fmt.Fprintf(w, "\n  %s Question %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(fmt.Sprintf("#%d", *session.CurrentQuestionID)),
		cliui.DimStyle.Render("in "+cliui.FormatDuration(elapsed)),
	)
	if !outcome.Sentinel {
		fmt.Fprintf(w, "  %s\n", cliui.WarnStyle.Render("The stream ended early; the question may be incomplete."))
	}
	fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("Answer it with: rehearse answer \"...\""))
}
