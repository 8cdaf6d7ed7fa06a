package mocks

import "github.com/you/authsvc/domain"

// MockPasswordService implements domain.PasswordService interface for testing.
// Hashes are "hashed_" + password so tests can assert on stored values.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	// HashCalls records every password passed to Hash
	HashCalls []string
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes the given password
func (m *MockPasswordService) Hash(password string) (string, error) {
	m.HashCalls = append(m.HashCalls, password)
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify compares a password against its hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
