package interview

import (
	"cmp"
	"context"
	"errors"
	"slices"
)

// Reconciler assigns the identifier of a freshly streamed question to its
// session. The stream itself does not carry the identifier.
type Reconciler interface {
	// Reconcile sets session.CurrentQuestionID. Errors are reported as
	// *ReconciliationError and leave the identifier unset.
	Reconcile(ctx context.Context, session *Session) error
}

// ReconcilerFunc adapts a function to the Reconciler interface.
type ReconcilerFunc func(ctx context.Context, session *Session) error

// Reconcile implements Reconciler.
func (f ReconcilerFunc) Reconcile(ctx context.Context, session *Session) error {
	return f(ctx, session)
}

// QuestionLister lists the persisted questions of a session.
type QuestionLister interface {
	ListQuestions(ctx context.Context, sessionID int64) ([]Question, error)
}

var errNoQuestions = errors.New("session has no questions")

// HighestIDReconciler picks the question with the largest identifier. The
// backend allocates identifiers in increasing order, so this is the
// question just streamed unless another client created one concurrently
// for the same session.
type HighestIDReconciler struct {
	Questions QuestionLister
}

// Reconcile implements Reconciler.
func (r HighestIDReconciler) Reconcile(ctx context.Context, session *Session) error {
	questions, err := r.Questions.ListQuestions(ctx, session.ID)
	if err != nil {
		return &ReconciliationError{SessionID: session.ID, Err: err}
	}
	if len(questions) == 0 {
		return &ReconciliationError{SessionID: session.ID, Err: errNoQuestions}
	}

	latest := slices.MaxFunc(questions, func(a, b Question) int {
		return cmp.Compare(a.ID, b.ID)
	})

	id := latest.ID
	session.CurrentQuestionID = &id

	return nil
}
