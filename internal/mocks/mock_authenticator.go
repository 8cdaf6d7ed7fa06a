package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockAuthenticator implements domain.Authenticator interface for testing
type MockAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, authorization string) (*domain.Identity, error)
	IdentifyFunc     func(authorization string) *domain.Identity
}

// NewMockAuthenticator creates a new MockAuthenticator with default behaviors
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

// Authenticate checks the authorization header
func (m *MockAuthenticator) Authenticate(ctx context.Context, authorization string) (*domain.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, authorization)
	}
	// Default behavior: no header means no token, anything else is a fixed user
	if authorization == "" {
		return nil, domain.ErrNoToken
	}
	return &domain.Identity{UserID: "mock-user-id", Username: "user@example.com"}, nil
}

// Identify decodes the authorization header without session checks
func (m *MockAuthenticator) Identify(authorization string) *domain.Identity {
	if m.IdentifyFunc != nil {
		return m.IdentifyFunc(authorization)
	}
	if authorization == "" {
		return nil
	}
	return &domain.Identity{UserID: "mock-user-id", Username: "user@example.com"}
}

// Compile-time interface compliance verification
var _ domain.Authenticator = (*MockAuthenticator)(nil)
