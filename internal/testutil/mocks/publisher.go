package mocks

import (
	"context"
	"sync"

	"github.com/0xsj/overwatch-blog/internal/domain/event"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/messaging"
)

// EventPublisher is a mock implementation of messaging.EventPublisher.
type EventPublisher struct {
	mu sync.RWMutex

	// Published events
	events []event.Event

	// Events by type for easier querying
	byType map[string][]event.Event

	// Call tracking
	Calls struct {
		Publish    int
		PublishAll int
	}

	// Error injection
	Errors struct {
		Publish    error
		PublishAll error
	}
}

// NewEventPublisher creates a new mock EventPublisher.
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		events: make([]event.Event, 0),
		byType: make(map[string][]event.Event),
	}
}

func (m *EventPublisher) Publish(ctx context.Context, evt event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Publish++

	if m.Errors.Publish != nil {
		return m.Errors.Publish
	}

	m.recordEvent(evt)
	return nil
}

func (m *EventPublisher) PublishAll(ctx context.Context, events []event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.PublishAll++

	if m.Errors.PublishAll != nil {
		return m.Errors.PublishAll
	}

	for _, evt := range events {
		m.recordEvent(evt)
	}
	return nil
}

// recordEvent stores the event in all indexes (must hold lock).
func (m *EventPublisher) recordEvent(evt event.Event) {
	m.events = append(m.events, evt)
	m.byType[evt.EventType()] = append(m.byType[evt.EventType()], evt)
}

// --- Query Methods ---

// EventCount returns the total number of published events.
func (m *EventPublisher) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// HasEvent checks if any event of the given type was published.
func (m *EventPublisher) HasEvent(eventType string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byType[eventType]) > 0
}

// LastEventOfType returns the most recent event of a specific type, or nil if none.
func (m *EventPublisher) LastEventOfType(eventType string) event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.byType[eventType]
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

var _ messaging.EventPublisher = (*EventPublisher)(nil)
