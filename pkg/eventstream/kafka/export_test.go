package kafka

import kafkago "github.com/segmentio/kafka-go"

// MessageWriter exposes the writer seam to the external test package.
type MessageWriter = messageWriter

// NewPublisherWithWriter builds a publisher around a fake writer.
func NewPublisherWithWriter(w MessageWriter, topic string) *Publisher {
	return newPublisher(w, topic, nil)
}

var _ MessageWriter = (*kafkago.Writer)(nil)
