package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/0xsj/overwatch-blog/internal/domain/event"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/messaging"
)

// eventPublisher implements messaging.EventPublisher.
type eventPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(conn *nats.Conn, subjectPrefix string) messaging.EventPublisher {
	if subjectPrefix == "" {
		subjectPrefix = "overwatch"
	}
	return &eventPublisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, evt event.Event) error {
	data, err := encodeEvent(evt)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(subjectFor(p.subjectPrefix, evt), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (p *eventPublisher) PublishAll(ctx context.Context, events []event.Event) error {
	for _, evt := range events {
		if err := p.Publish(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}

func subjectFor(prefix string, evt event.Event) string {
	return fmt.Sprintf("%s.%s", prefix, messaging.TopicForEvent(evt))
}

func encodeEvent(evt event.Event) ([]byte, error) {
	envelope := eventEnvelope{
		EventID:       evt.EventID().String(),
		EventType:     evt.EventType(),
		AggregateID:   evt.AggregateID(),
		AggregateType: evt.AggregateType(),
		OccurredAt:    evt.OccurredAt().Time().Unix(),
		Payload:       evt,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// eventEnvelope wraps an event with metadata for transport.
type eventEnvelope struct {
	EventID       string      `json:"event_id"`
	EventType     string      `json:"event_type"`
	AggregateID   string      `json:"aggregate_id"`
	AggregateType string      `json:"aggregate_type"`
	OccurredAt    int64       `json:"occurred_at"`
	Payload       interface{} `json:"payload"`
}

// noopPublisher drops every event. It stands in when NATS is disabled.
type noopPublisher struct{}

// NewNoopPublisher creates an EventPublisher that discards events.
func NewNoopPublisher() messaging.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, evt event.Event) error         { return nil }
func (noopPublisher) PublishAll(ctx context.Context, events []event.Event) error { return nil }
