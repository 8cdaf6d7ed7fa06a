package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc      func(ctx context.Context, user *domain.User) error
	FindByEmailFunc func(ctx context.Context, email string) *domain.User
	UpdateFunc      func(ctx context.Context, user *domain.User) error
	ActivateFunc    func(ctx context.Context, userID string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: assign a fixed id
	if user.ID == "" {
		user.ID = "mock-user-id"
	}
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) *domain.User {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil
}

// Update updates a user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

// Activate marks a user as active
func (m *MockUserRepository) Activate(ctx context.Context, userID string) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, userID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
