package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/shreyanshbahuguna/trustcheck-backend/internal/domain/event"
)

// Publisher implements port.EventPublisher over a single Kafka topic. Events
// are keyed by aggregate ID so all runs for one artifact land on the same
// partition in order.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafkago.RequireAll,
		},
		logger: logger,
	}
}

// Publish marshals and sends domain events. Events that do not implement
// event.DomainEvent are sent unkeyed with an unknown type header.
func (p *Publisher) Publish(ctx context.Context, events ...interface{}) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		eventType := "unknown"
		var key []byte
		if de, ok := evt.(event.DomainEvent); ok {
			eventType = de.EventType()
			key = []byte(de.AggregateID().String())
		}

		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.writer.Topic),
			slog.Int("payload_size", len(payload)),
		)

		messages = append(messages, kafkago.Message{
			Key:   key,
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(eventType)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
