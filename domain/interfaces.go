package domain

import (
	"context"
	"time"
)

// UserRepository defines credential store operations.
//
// Lookups are fail-soft: a nil result means either "no such record" or "the
// store failed"; the failure is logged by the implementation and not returned.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) *User
	Update(ctx context.Context, user *User) error
	Activate(ctx context.Context, userID string) error
}

// SessionRepository defines session store operations. Lookups follow the same
// fail-soft contract as UserRepository.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	// FindByEmail returns the active, non-deleted session for email
	FindByEmail(ctx context.Context, email string) *Session
	// FindByUserID returns the active, non-deleted session for userID
	FindByUserID(ctx context.Context, userID string) *Session
	// FindByRefreshToken returns the active session holding refreshToken that
	// has neither expired nor been logged out
	FindByRefreshToken(ctx context.Context, refreshToken string) *Session
	Update(ctx context.Context, session *Session) error
}

// AuthService defines the session lifecycle
type AuthService interface {
	Register(ctx context.Context, email, password string) (*User, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Renew(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// Authenticator decides whether an inbound request carries a live access token
type Authenticator interface {
	// Authenticate runs the full check: signature, expiry and session liveness
	Authenticate(ctx context.Context, authorization string) (*Identity, error)
	// Identify returns the identity of a correctly signed token, ignoring
	// expiry and session state, or nil
	Identify(authorization string) *Identity
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations. Verify methods check signature and
// structure only; expiry is left to the caller via TokenClaims.Expired.
type TokenService interface {
	IssueAccessToken(userID, email string) (string, error)
	IssueRefreshToken(email string) (string, error)
	IssueVerificationToken(email string) (string, error)
	VerifyAccessToken(token string) (*TokenClaims, error)
	VerifyRefreshToken(token string) (*TokenClaims, error)
	VerifyVerificationToken(token string) (*TokenClaims, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// TokenClaims represents decoded JWT claims. Username carries the email for
// every token kind; UserID is only set on access tokens.
type TokenClaims struct {
	ID        string `json:"jti,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Expired reports whether the token is past its expiry at now
func (c *TokenClaims) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}
