package mocks

import (
	"context"
	"sync"

	"github.com/you/authsvc/domain"
)

// MockAuditLogger implements domain.AuditLogger interface for testing
type MockAuditLogger struct {
	LogEventFunc func(ctx context.Context, event *domain.AuditEvent) error

	mu     sync.Mutex
	events []*domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger with default behaviors
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

// LogEvent records the event
func (m *MockAuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.LogEventFunc != nil {
		return m.LogEventFunc(ctx, event)
	}
	return nil
}

// Events returns the recorded events in order
func (m *MockAuditLogger) Events() []*domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditEvent(nil), m.events...)
}

// EventTypes returns the types of the recorded events in order
func (m *MockAuditLogger) EventTypes() []domain.AuditEventType {
	var types []domain.AuditEventType
	for _, e := range m.Events() {
		types = append(types, e.EventType)
	}
	return types
}

// Compile-time interface compliance verification
var _ domain.AuditLogger = (*MockAuditLogger)(nil)
