// Package practicecmder provides the practice command, an interactive
// terminal interview that streams questions and evaluates answers.
package practicecmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/rehearse/pkg/app"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/question"
)

const practiceLongDesc string = `Practice an interview in the terminal.

Questions are streamed into the view as they are generated. Write your
answer in the editor and submit it with ctrl+s to get it evaluated, then
press n for the next question. Press f to finish the session and generate
the report once you are done.

The session must be in progress. Without --session the session selected by
"rehearse session start" is used.

Examples:
  rehearse practice
  rehearse practice --session 12`

const practiceShortDesc string = "Practice an interview interactively"

type practiceCommander struct {
	sessionID int64
}

func NewPracticeCmd() *cobra.Command {
	cmder := &practiceCommander{}

	cmd := &cobra.Command{
		Use:   "practice",
		Short: practiceShortDesc,
		Long:  practiceLongDesc,
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
	app.AddClientFlags(cmd)

	return cmd
}

func (c *practiceCommander) run(cmd *cobra.Command, rt *app.Runtime) error {
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

	return runPracticeTUI(cmd.Context(), &runtimeBackend{rt: rt}, session)
}

// backend is what the practice view needs from the interview backend.
type backend interface {
	NextQuestion(ctx context.Context, session *interview.Session, onChunk func(string)) (question.Outcome, error)
	Answer(ctx context.Context, session *interview.Session, answer string) (*interview.Evaluation, error)
	Finish(ctx context.Context, session *interview.Session) (*interview.Session, error)
}

// runtimeBackend talks to the backend through a Runtime and records what
// happens locally.
type runtimeBackend struct {
	rt *app.Runtime
}

func (b *runtimeBackend) NextQuestion(ctx context.Context, session *interview.Session, onChunk func(string)) (question.Outcome, error) {
	started := time.Now()
	chunks := 0
	outcome, err := b.rt.Streamer.NextQuestion(ctx, session, func(delta string) {
		chunks++
		onChunk(delta)
	})
	if err != nil {
		return question.Outcome{}, err
	}

	if err := b.rt.RecordQuestion(ctx, session, outcome, started, chunks); err != nil {
		b.rt.Logger.Warn("could not record question", "session_id", session.ID, "error", err)
	}
	return outcome, nil
}

func (b *runtimeBackend) Answer(ctx context.Context, session *interview.Session, answer string) (*interview.Evaluation, error) {
	if session.CurrentQuestionID == nil {
		return nil, interview.ErrNoQuestion
	}
	questionID := *session.CurrentQuestionID

	eval, err := b.rt.Client.AnswerCurrent(ctx, session, answer)
	if err != nil {
		return nil, err
	}

	if err := b.rt.RecordAnswer(ctx, session, questionID, answer, eval); err != nil {
		b.rt.Logger.Warn("could not record answer", "session_id", session.ID, "error", err)
	}
	return eval, nil
}

func (b *runtimeBackend) Finish(ctx context.Context, session *interview.Session) (*interview.Session, error) {
	finished, err := b.rt.Client.FinishSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if err := b.rt.RecordSession(ctx, finished); err != nil {
		b.rt.Logger.Warn("could not record session", "session_id", session.ID, "error", err)
	}

	current, err := b.rt.Dotdir.LoadCurrent(b.rt.ConfigDir)
	if err == nil && current != nil && current.SessionID == finished.ID {
		err = b.rt.Dotdir.ClearCurrent(b.rt.ConfigDir)
	}
	if err != nil {
		b.rt.Logger.Warn("could not clear selected session", "error", err)
	}
	return finished, nil
}
