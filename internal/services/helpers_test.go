package services

import (
	"context"
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/mocks"
)

// authDeps bundles the mocks behind an AuthServiceImpl
type authDeps struct {
	userRepo    *mocks.MockUserRepository
	sessionRepo *mocks.MockSessionRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	notifier    *mocks.MockNotificationService
	audit       *mocks.MockAuditLogger
}

func newAuthDeps() *authDeps {
	return &authDeps{
		userRepo:    mocks.NewMockUserRepository(),
		sessionRepo: mocks.NewMockSessionRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		notifier:    mocks.NewMockNotificationService(),
		audit:       mocks.NewMockAuditLogger(),
	}
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T, d *authDeps) *AuthServiceImpl {
	t.Helper()

	return NewAuthService(
		d.userRepo,
		d.sessionRepo,
		d.passwordSvc,
		d.tokenSvc,
		d.notifier,
		d.audit,
		logging.Nop(),
		"http://localhost/auth/verify/",
	).(*AuthServiceImpl)
}

// createValidUser creates an active user whose password is "secret"
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           "user-1",
		Email:        "a@x.com",
		PasswordHash: "hashed_secret",
		Active:       true,
		Audit: domain.Audit{
			CreatedBy: domain.SystemActor,
			CreatedAt: time.Now().Add(-24 * time.Hour),
		},
	}
}

// createInactiveUser creates an unverified user
func createInactiveUser(t *testing.T) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.Active = false
	return user
}

// createLiveSession creates the current session row for user
func createLiveSession(t *testing.T, user *domain.User) *domain.Session {
	t.Helper()

	return &domain.Session{
		ID:           "session-1",
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  "old_access",
		RefreshToken: "old_refresh",
		LoginTime:    time.Now().Add(-time.Hour),
		Active:       true,
	}
}

// createTokenClaims creates claims for email expiring ttl from now
func createTokenClaims(t *testing.T, userID, email string, ttl time.Duration) *domain.TokenClaims {
	t.Helper()

	now := time.Now()
	return &domain.TokenClaims{
		ID:        "jti",
		UserID:    userID,
		Username:  email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// assertEventTypes checks the audit trail recorded by the mocks
func assertEventTypes(t *testing.T, audit *mocks.MockAuditLogger, expected ...domain.AuditEventType) {
	t.Helper()

	got := audit.EventTypes()
	if len(got) != len(expected) {
		t.Fatalf("expected audit events %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("expected audit event %d to be %s, got %s", i, expected[i], got[i])
		}
	}
}
