// Package eventstream publishes practice events to an event stream backend.
package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeQuestionStreamed is emitted after a question finished
	// streaming and was reconciled with its session.
	EventTypeQuestionStreamed = "rehearse.question.streamed"
)

// QuestionStreamedEvent is a transport-neutral event payload for a streamed question.
type QuestionStreamedEvent struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	EventID       string       `json:"event_id"`
	EmittedAt     time.Time    `json:"emitted_at"`
	Source        EventSource  `json:"source"`
	Session       SessionMeta  `json:"session"`
	Question      QuestionMeta `json:"question"`
	Stream        StreamMeta   `json:"stream"`
}

// EventSource identifies the client that streamed the question.
type EventSource struct {
	Client  string `json:"client"`
	Version string `json:"version,omitempty"`
	Backend string `json:"backend"`
}

// SessionMeta identifies the interview session.
type SessionMeta struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

// QuestionMeta carries the assembled question.
type QuestionMeta struct {
	// ID is the reconciled backend identifier, absent when reconciliation failed.
	ID   *int64 `json:"id,omitempty"`
	Text string `json:"text"`

	// Sentinel is false when the stream ended without [DONE].
	Sentinel bool `json:"sentinel"`
}

// StreamMeta captures stream timing.
type StreamMeta struct {
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	Chunks      int       `json:"chunks"`
}

// NewQuestionStreamedEvent stamps a fresh event ID and emission time.
func NewQuestionStreamedEvent(source EventSource, session SessionMeta, q QuestionMeta, stream StreamMeta) *QuestionStreamedEvent {
	if stream.DurationMs == 0 && !stream.StartedAt.IsZero() && !stream.CompletedAt.IsZero() {
		stream.DurationMs = stream.CompletedAt.Sub(stream.StartedAt).Milliseconds()
	}

	return &QuestionStreamedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeQuestionStreamed,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Session:       session,
		Question:      q,
		Stream:        stream,
	}
}
