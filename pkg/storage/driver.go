// Package storage persists local practice state: the sessions the user has
// touched, the questions streamed for them and the answers given.
package storage

import (
	"context"
	"time"
)

// SessionState is the local view of an interview session.
type SessionState struct {
	SessionID int64
	Title     string
	Status    string

	// CurrentQuestionID is the reconciled identifier of the last streamed
	// question, nil until one is known.
	CurrentQuestionID *int64

	UpdatedAt time.Time
}

// QuestionRecord is one streamed question.
type QuestionRecord struct {
	// ID is assigned by the store.
	ID        int64
	SessionID int64

	// QuestionID is the backend identifier, nil when reconciliation failed.
	QuestionID *int64

	Text string

	// Sentinel is false when the stream ended without [DONE].
	Sentinel   bool
	StreamedAt time.Time
}

// AnswerRecord is one submitted answer and its evaluation.
type AnswerRecord struct {
	ID           int64
	SessionID    int64
	QuestionID   int64
	Answer       string
	OverallScore float64
	Feedback     string
	AnsweredAt   time.Time
}

// Driver defines the interface for persisting local practice state.
type Driver interface {
	// PutSession inserts or replaces the state of a session.
	PutSession(ctx context.Context, state SessionState) error

	// GetSession returns NotFoundError when the session is unknown.
	GetSession(ctx context.Context, sessionID int64) (*SessionState, error)

	// ListSessions returns all sessions, most recently updated first.
	ListSessions(ctx context.Context) ([]SessionState, error)

	// DeleteSession removes a session with its questions and answers.
	// Deleting an unknown session is not an error.
	DeleteSession(ctx context.Context, sessionID int64) error

	// AddQuestion appends a streamed question and returns its store ID.
	AddQuestion(ctx context.Context, q QuestionRecord) (int64, error)

	// Questions returns the questions of a session in streaming order.
	Questions(ctx context.Context, sessionID int64) ([]QuestionRecord, error)

	// AddAnswer appends an answer and returns its store ID.
	AddAnswer(ctx context.Context, a AnswerRecord) (int64, error)

	// Answers returns the answers of a session in submission order.
	Answers(ctx context.Context, sessionID int64) ([]AnswerRecord, error)

	// Close closes the store and releases any resources.
	Close() error
}
