package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// SentEmail is a message captured by MockNotificationService
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendEmailFunc func(ctx context.Context, to, subject, body string) error

	Sent []SentEmail
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEmail records the message and delegates to SendEmailFunc when set
func (m *MockNotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	m.Sent = append(m.Sent, SentEmail{To: to, Subject: subject, Body: body})
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	// Default behavior: success (no actual email sent in tests)
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
