package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, email, password string) (*domain.User, error)
	VerifyEmailFunc func(ctx context.Context, token string) (string, error)
	LoginFunc       func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RenewFunc       func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc      func(ctx context.Context, userID string) error
	GetProfileFunc  func(ctx context.Context, userID string) (*domain.Profile, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password)
	}
	// Default behavior: return a fresh inactive user
	return &domain.User{ID: "mock-user-id", Email: email, Active: false}, nil
}

// VerifyEmail activates the account named by a verification token
func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return "user@example.com", nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: return mock tokens
	return &domain.AuthResult{
		Email:        email,
		AccessToken:  "mock_access_token",
		RefreshToken: "mock_refresh_token",
	}, nil
}

// Renew exchanges a refresh token for a new pair
func (m *MockAuthService) Renew(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RenewFunc != nil {
		return m.RenewFunc(ctx, refreshToken)
	}
	return &domain.AuthResult{
		Email:        "user@example.com",
		AccessToken:  "new_mock_access_token",
		RefreshToken: "new_mock_refresh_token",
	}, nil
}

// Logout ends the user's session
func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID)
	}
	// Default behavior: success
	return nil
}

// GetProfile returns the session owner's profile
func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return &domain.Profile{UserID: userID, Email: "user@example.com"}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
