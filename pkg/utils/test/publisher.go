package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/rehearse/pkg/eventstream"
)

// MockPublisher is a test publisher that records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.QuestionStreamedEvent

	// FailPublish causes PublishQuestion to return an error.
	FailPublish bool

	Closed bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishQuestion(_ context.Context, event *eventstream.QuestionStreamedEvent) error {
	if event == nil {
		return eventstream.ErrNilQuestionEvent
	}
	if m.FailPublish {
		return errors.New("mock publish failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (m *MockPublisher) Events() []*eventstream.QuestionStreamedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.QuestionStreamedEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error {
	m.Closed = true
	return nil
}
