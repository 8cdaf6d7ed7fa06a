package domain

import "time"

// SystemActor is recorded in audit columns for mutations made by the service itself
const SystemActor = "system"

// Audit holds the bookkeeping columns shared by persisted records
type Audit struct {
	CreatedBy string
	CreatedAt time.Time
	UpdatedBy string
	UpdatedAt *time.Time
	DeletedBy string
	DeletedAt *time.Time
	Deleted   bool
}

// Touch stamps the update columns
func (a *Audit) Touch(by string, at time.Time) {
	a.UpdatedBy = by
	a.UpdatedAt = &at
}

// User represents a registered account
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Active       bool
	Audit
}

// Session is the live (or most recent) authentication state of a user.
// Empty AccessToken/RefreshToken mean the column is null.
type Session struct {
	ID           string
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	LoginTime    time.Time
	ExpiredTime  *time.Time
	LogoutTime   *time.Time
	Active       bool
	Audit
}

// IsLive reports whether the session can still be renewed
func (s *Session) IsLive() bool {
	return s.Active && s.ExpiredTime == nil && s.LogoutTime == nil
}

// Invalidate clears the access token and stamps whichever terminal
// timestamps are non-nil. Timestamps already set are kept.
func (s *Session) Invalidate(expiredAt, logoutAt *time.Time) {
	s.AccessToken = ""
	if expiredAt != nil && s.ExpiredTime == nil {
		s.ExpiredTime = expiredAt
	}
	if logoutAt != nil && s.LogoutTime == nil {
		s.LogoutTime = logoutAt
	}
}

// Reopen makes the row the live session again with a fresh token pair
func (s *Session) Reopen(accessToken, refreshToken string, loginTime time.Time) {
	s.AccessToken = accessToken
	s.RefreshToken = refreshToken
	s.LoginTime = loginTime
	s.ExpiredTime = nil
	s.LogoutTime = nil
	s.Active = true
}

// AuthResult represents a successful login or renewal
type AuthResult struct {
	Email        string
	AccessToken  string
	RefreshToken string
}

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID   string
	Username string
}

// Profile is the public view of the current session owner
type Profile struct {
	UserID string
	Email  string
}
