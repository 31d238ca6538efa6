package app

import (
	"context"
	"errors"
	"time"

	"github.com/papercomputeco/rehearse/pkg/eventstream"
	"github.com/papercomputeco/rehearse/pkg/interview"
	"github.com/papercomputeco/rehearse/pkg/question"
	"github.com/papercomputeco/rehearse/pkg/recorder"
	"github.com/papercomputeco/rehearse/pkg/storage"
)

// sessionState is the local view of a session.
func sessionState(s *interview.Session) storage.SessionState {
	return storage.SessionState{
		SessionID:         s.ID,
		Title:             s.DisplayName(),
		Status:            s.Status.String(),
		CurrentQuestionID: s.CurrentQuestionID,
		UpdatedAt:         time.Now(),
	}
}

// RecordSession stores the session's status and current question.
func (r *Runtime) RecordSession(ctx context.Context, s *interview.Session) error {
	pool, err := r.Recorder(ctx)
	if err != nil {
		return err
	}
	pool.Enqueue(recorder.Job{Session: sessionState(s)})
	return nil
}

// RecordQuestion stores a streamed question and publishes its event.
func (r *Runtime) RecordQuestion(ctx context.Context, s *interview.Session, outcome question.Outcome, started time.Time, chunks int) error {
	pool, err := r.Recorder(ctx)
	if err != nil {
		return err
	}

	completed := time.Now()
	job := recorder.Job{Session: sessionState(s)}
	job.Question = &storage.QuestionRecord{
		SessionID:  s.ID,
		QuestionID: s.CurrentQuestionID,
		Text:       outcome.Text,
		Sentinel:   outcome.Sentinel,
		StreamedAt: completed,
	}
	job.Stream = eventstream.StreamMeta{
		StartedAt:   started,
		CompletedAt: completed,
		Chunks:      chunks,
	}

	pool.Enqueue(job)
	return nil
}

// RecordAnswer stores an answer and its evaluation. The session's current
// question is cleared since it has been answered.
func (r *Runtime) RecordAnswer(ctx context.Context, s *interview.Session, questionID int64, answer string, eval *interview.Evaluation) error {
	pool, err := r.Recorder(ctx)
	if err != nil {
		return err
	}

	s.CurrentQuestionID = nil
	job := recorder.Job{Session: sessionState(s)}
	job.Answer = &storage.AnswerRecord{
		SessionID:    s.ID,
		QuestionID:   questionID,
		Answer:       answer,
		OverallScore: eval.OverallScore,
		Feedback:     eval.AIFeedback,
		AnsweredAt:   time.Now(),
	}

	pool.Enqueue(job)
	return nil
}

// CurrentQuestion returns the reconciled question id recorded for a
// session, or nil when no question is waiting for an answer.
func (r *Runtime) CurrentQuestion(ctx context.Context, sessionID int64) (*int64, error) {
	driver, err := r.Storage(ctx)
	if err != nil {
		return nil, err
	}

	st, err := driver.GetSession(ctx, sessionID)
	if err != nil {
		var nf storage.NotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		return nil, err
	}
	return st.CurrentQuestionID, nil
}
