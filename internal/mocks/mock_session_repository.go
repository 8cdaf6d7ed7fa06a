package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc             func(ctx context.Context, session *domain.Session) error
	FindByEmailFunc        func(ctx context.Context, email string) *domain.Session
	FindByUserIDFunc       func(ctx context.Context, userID string) *domain.Session
	FindByRefreshTokenFunc func(ctx context.Context, refreshToken string) *domain.Session
	UpdateFunc             func(ctx context.Context, session *domain.Session) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create creates a new session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds the current session for an email
func (m *MockSessionRepository) FindByEmail(ctx context.Context, email string) *domain.Session {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil
}

// FindByUserID finds the current session for a user
func (m *MockSessionRepository) FindByUserID(ctx context.Context, userID string) *domain.Session {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	// Default behavior: not found
	return nil
}

// FindByRefreshToken finds the live session holding a refresh token
func (m *MockSessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) *domain.Session {
	if m.FindByRefreshTokenFunc != nil {
		return m.FindByRefreshTokenFunc(ctx, refreshToken)
	}
	// Default behavior: not found
	return nil
}

// Update updates a session
func (m *MockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
