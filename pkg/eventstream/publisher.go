package eventstream

import "context"

// Publisher publishes question events to an event stream backend.
type Publisher interface {
	PublishQuestion(ctx context.Context, event *QuestionStreamedEvent) error
	Close() error
}
