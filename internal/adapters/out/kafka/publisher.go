// Package kafka publishes order domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// eventMessage is the JSON value of every published record.
type eventMessage struct {
	Event          string    `json:"event"`
	OrderID        string    `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	CreatorID      string    `json:"creatorId,omitempty"`
	From           string    `json:"from,omitempty"`
	To             string    `json:"to,omitempty"`
	DeliveryUserID string    `json:"deliveryUserId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// OrderEventPublisher writes events keyed by order id so that the events of
// one order land on one partition, in order.
type OrderEventPublisher struct {
	writer messageWriter
}

// NewWriter builds the producer for the order events topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
	}
}

func NewOrderEventPublisher(writer messageWriter) *OrderEventPublisher {
	return &OrderEventPublisher{writer: writer}
}

// Publish sends all events in one batch.
func (p *OrderEventPublisher) Publish(ctx context.Context, events ...order.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(toMessage(event))
		if err != nil {
			return fmt.Errorf("encode %s: %w", event.EventName(), err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.AggregateID().String()),
			Value: value,
			Time:  event.OccurredAt(),
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(event.EventName())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write order events: %w", err)
	}
	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(event order.DomainEvent) eventMessage {
	msg := eventMessage{
		Event:      event.EventName(),
		OrderID:    event.AggregateID().String(),
		OccurredAt: event.OccurredAt().UTC(),
	}

	switch e := event.(type) {
	case order.CreatedEvent:
		msg.OrderNumber = e.OrderNumber
		msg.CreatorID = e.CreatorID.String()
	case order.StatusChangedEvent:
		msg.OrderNumber = e.OrderNumber
		msg.From = e.From.String()
		msg.To = e.To.String()
		if e.DeliveryUserID != nil {
			msg.DeliveryUserID = e.DeliveryUserID.String()
		}
	case order.DeletedEvent:
		msg.OrderNumber = e.OrderNumber
	}
	return msg
}

// LoggingPublisher records events in the log. It stands in when no brokers are configured.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPublisher{logger: logger.With("component", "order_events")}
}

func (p *LoggingPublisher) Publish(ctx context.Context, events ...order.DomainEvent) error {
	for _, event := range events {
		msg := toMessage(event)
		p.logger.InfoContext(ctx, "order event",
			"event", msg.Event,
			"order_id", msg.OrderID,
			"order_number", msg.OrderNumber,
			"from", msg.From,
			"to", msg.To,
		)
	}
	return nil
}
