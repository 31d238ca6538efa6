// Package nop provides the publisher used when no event backend is configured.
package nop

import (
	"context"

	"github.com/papercomputeco/rehearse/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishQuestion validates input and otherwise does nothing.
func (p *Publisher) PublishQuestion(_ context.Context, event *eventstream.QuestionStreamedEvent) error {
	if event == nil {
		return eventstream.ErrNilQuestionEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
