package helpers

import (
	"context"
	"sync"
)

// PublishedEvent records one Publish call made against the mock
type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

// MockEventPublisher is an in-memory implementation of quote.EventPublisher
// for testing. It records every published event and can be told to fail.
type MockEventPublisher struct {
	mu         sync.Mutex
	Published  []PublishedEvent
	PublishErr error
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event, or fails if PublishErr is set
func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Published = append(m.Published, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

// EventsWithKey returns the published events carrying the given routing key
func (m *MockEventPublisher) EventsWithKey(routingKey string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []PublishedEvent
	for _, ev := range m.Published {
		if ev.RoutingKey == routingKey {
			matched = append(matched, ev)
		}
	}
	return matched
}

// Reset clears all recorded events
func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = nil
	m.PublishErr = nil
}
