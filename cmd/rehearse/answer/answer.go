// Package answercmder provides the answer command, which submits an answer
// to the current question of a session.
package answercmder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/cliui"
	"github.com/papercomputeco/rehearse/pkg/interview"
)

const answerLongDesc string = `Answer the current question of an interview session.

The current question is the last one streamed with "rehearse next" whose id
was determined. The answer is taken from the arguments, from --file, or
from stdin when neither is given.

Examples:
  rehearse answer "Goroutines are multiplexed onto OS threads..."
  rehearse answer --file answer.md
  pbpaste | rehearse answer`

const answerShortDesc string = "Answer the current interview question"

type answerCommander struct {
	sessionID int64
	file      string
}

func NewAnswerCmd() *cobra.Command {
	cmder := &answerCommander{}

	cmd := &cobra.Command{
		Use:   "answer [text...]",
		Short: answerShortDesc,
		Long:  answerLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.FromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close(cmd.Context())

			return cmder.run(cmd, rt, args)
		},
	}

	cmd.Flags().Int64Var(&cmder.sessionID, "session", 0, "Session id (default: the selected session)")
	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Read the answer from a file")
	app.AddClientFlags(cmd)

	return cmd
}

func (c *answerCommander) run(cmd *cobra.Command, rt *app.Runtime, args []string) error {
	id, err := rt.SessionID(c.sessionID)
	if err != nil {
		return err
	}

	questionID, err := rt.CurrentQuestion(cmd.Context(), id)
	if err != nil {
		return err
	}
	if questionID == nil {
		return fmt.Errorf("%w: run 'rehearse next' first", interview.ErrNoQuestion)
	}

	answer, err := c.readAnswer(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	session, err := rt.Client.GetSession(cmd.Context(), id)
	if err != nil {
		return err
	}
	session.CurrentQuestionID = questionID

	eval, err := rt.Client.AnswerCurrent(cmd.Context(), session, answer)
	if err != nil {
		return fmt.Errorf("submitting answer: %w", err)
	}

	if err := rt.RecordAnswer(cmd.Context(), session, *questionID, answer, eval); err != nil {
		return err
	}

	printEvaluation(cmd.OutOrStdout(), eval)
	return nil
}

func (c *answerCommander) readAnswer(stdin io.Reader, args []string) (string, error) {
	var text string
	switch {
	case len(args) > 0 && c.file != "":
		return "", errors.New("pass the answer as arguments or with --file, not both")
	case len(args) > 0:
		text = strings.Join(args, " ")
	case c.file != "":
		data, err := os.ReadFile(c.file)
		if err != nil {
			return "", fmt.Errorf("reading answer file: %w", err)
		}
		text = string(data)
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("answer cannot be empty")
	}
	return text, nil
}

func printEvaluation(w io.Writer, eval *interview.Evaluation) {
	fmt.Fprintf(w, "\n  %s Answer submitted\n\n", cliui.SuccessMark)
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Overall:     "), cliui.Score(eval.OverallScore))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Professional:"), cliui.Score(eval.ProfessionalScore))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Logic:       "), cliui.Score(eval.LogicScore))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Completeness:"), cliui.Score(eval.CompletenessScore))
	if eval.AIFeedback != "" {
		fmt.Fprintf(w, "\n  %s\n", cliui.ValueStyle.Render(eval.AIFeedback))
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("Continue with: rehearse next"))
}
