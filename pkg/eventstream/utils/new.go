// Package eventstreamutils selects and constructs the configured
// eventstream.Publisher.
package eventstreamutils

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/rehearse/pkg/config"
	"github.com/papercomputeco/rehearse/pkg/eventstream"
	"github.com/papercomputeco/rehearse/pkg/eventstream/kafka"
	"github.com/papercomputeco/rehearse/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// ProviderType is config.EventsNone or config.EventsKafka. Empty means
	// none.
	ProviderType string

	// Brokers is a comma separated host:port list.
	Brokers string

	Topic  string
	Logger *slog.Logger
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", config.EventsNone:
		return nop.NewPublisher(), nil
	case config.EventsKafka:
		return kafka.NewPublisher(kafka.Config{
			Brokers: kafka.ParseBrokers(o.Brokers),
			Topic:   o.Topic,
			Logger:  o.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported events provider: %s", o.ProviderType)
	}
}
