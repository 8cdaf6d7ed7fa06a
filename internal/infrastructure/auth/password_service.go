package auth

import (
	"errors"
	"fmt"

	"github.com/you/authsvc/domain"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts
const MaxPasswordBytes = 72

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service. A cost outside the
// bcrypt range falls back to bcrypt.DefaultCost.
func NewPasswordService(cost int) domain.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{
		cost: cost,
	}
}

// Hash implements domain.PasswordService. bcrypt only reads the first 72
// bytes, so longer passwords are rejected as a validation error.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password exceeds %d bytes", domain.ErrValidation, MaxPasswordBytes)
	}
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
