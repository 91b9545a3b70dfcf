// Package eventbus publishes domain events over NATS JetStream using
// watermill. Consumers (the web frontend, reconciliation tooling) subscribe
// out of process; this service only publishes.
package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// EventBus is the publishing contract handed to modules.
type EventBus interface {
	Publish(topic string, msg *message.Message) error
	Close() error
}

// JetStreamEventBus implements EventBus on NATS JetStream.
type JetStreamEventBus struct {
	logger    watermill.LoggerAdapter
	publisher *wmnats.Publisher
}

var _ EventBus = (*JetStreamEventBus)(nil)

// NewJetStreamEventBus connects to NATS and builds a JetStream publisher.
func NewJetStreamEventBus(natsURL string, logger watermill.LoggerAdapter) (*JetStreamEventBus, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription", err, watermill.LogFields{
					"subject": s.Subject,
					"queue":   s.Queue,
				})
			} else {
				logger.Error("Error in connection", err, nil)
			}
		}),
	}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         natsURL,
			NatsOptions: options,
			Marshaler:   &wmnats.NATSMarshaler{},
			JetStream: wmnats.JetStreamConfig{
				Disabled:      false,
				AutoProvision: true,
			},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	return &JetStreamEventBus{
		logger:    logger,
		publisher: publisher,
	}, nil
}

// Publish sends a message to the given topic.
func (b *JetStreamEventBus) Publish(topic string, msg *message.Message) error {
	if err := b.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Close shuts down the publisher connection.
func (b *JetStreamEventBus) Close() error {
	return b.publisher.Close()
}

// NewJSONMessage marshals payload into a watermill message carrying the
// given correlation ID in its metadata.
func NewJSONMessage(correlationID string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	msg.Metadata.Set("correlation_id", correlationID)
	return msg, nil
}

// NoOpBus discards everything; used in tests and when NATS is not configured.
type NoOpBus struct{}

func (NoOpBus) Publish(string, *message.Message) error { return nil }

func (NoOpBus) Close() error { return nil }
