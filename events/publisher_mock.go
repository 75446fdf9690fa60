package events

import (
	"context"
	"sync"
)

// MockPublisher records published events for tests
type MockPublisher struct {
	mu     sync.Mutex
	events []OrderPlacedEvent
	Err    error
}

// NewMockPublisher creates an empty mock publisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// PublishOrderPlaced records event and returns m.Err
func (m *MockPublisher) PublishOrderPlaced(_ context.Context, event OrderPlacedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// Events returns a copy of the recorded events
func (m *MockPublisher) Events() []OrderPlacedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]OrderPlacedEvent, len(m.events))
	copy(out, m.events)
	return out
}
