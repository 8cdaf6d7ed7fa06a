package mocks

import (
	"time"

	"github.com/you/authsvc/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueAccessTokenFunc        func(userID, email string) (string, error)
	IssueRefreshTokenFunc       func(email string) (string, error)
	IssueVerificationTokenFunc  func(email string) (string, error)
	VerifyAccessTokenFunc       func(token string) (*domain.TokenClaims, error)
	VerifyRefreshTokenFunc      func(token string) (*domain.TokenClaims, error)
	VerifyVerificationTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// IssueAccessToken issues an access token for the user
func (m *MockTokenService) IssueAccessToken(userID, email string) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(userID, email)
	}
	// Default behavior: return a mock access token
	return "access_token_" + userID, nil
}

// IssueRefreshToken issues a refresh token for the email
func (m *MockTokenService) IssueRefreshToken(email string) (string, error) {
	if m.IssueRefreshTokenFunc != nil {
		return m.IssueRefreshTokenFunc(email)
	}
	// Default behavior: return a mock refresh token
	return "refresh_token_" + email, nil
}

// IssueVerificationToken issues an email verification token
func (m *MockTokenService) IssueVerificationToken(email string) (string, error) {
	if m.IssueVerificationTokenFunc != nil {
		return m.IssueVerificationTokenFunc(email)
	}
	return "verify_token_" + email, nil
}

// VerifyAccessToken decodes an access token
func (m *MockTokenService) VerifyAccessToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyAccessTokenFunc != nil {
		return m.VerifyAccessTokenFunc(token)
	}
	// Default behavior: any non-empty token is a fresh token for a fixed user
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}
	return freshClaims("mock-user-id", "user@example.com", 15*time.Minute), nil
}

// VerifyRefreshToken decodes a refresh token
func (m *MockTokenService) VerifyRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyRefreshTokenFunc != nil {
		return m.VerifyRefreshTokenFunc(token)
	}
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}
	return freshClaims("", "user@example.com", 7*24*time.Hour), nil
}

// VerifyVerificationToken decodes an email verification token
func (m *MockTokenService) VerifyVerificationToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyVerificationTokenFunc != nil {
		return m.VerifyVerificationTokenFunc(token)
	}
	if token == "" {
		return nil, domain.ErrTokenMalformed
	}
	return freshClaims("", "user@example.com", 24*time.Hour), nil
}

func freshClaims(userID, username string, ttl time.Duration) *domain.TokenClaims {
	now := time.Now()
	return &domain.TokenClaims{
		ID:        "mock-jti",
		UserID:    userID,
		Username:  username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
