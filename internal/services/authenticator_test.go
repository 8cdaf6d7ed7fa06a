package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

func createAuthenticatorForTest(t *testing.T, d *authDeps) *AuthenticatorImpl {
	t.Helper()

	return NewAuthenticator(d.tokenSvc, d.sessionRepo, d.audit, logging.Nop()).(*AuthenticatorImpl)
}

func TestAuthenticatorImpl_Authenticate(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		setupMocks    func(t *testing.T, d *authDeps)
		expectedError error
		expectDenied  bool
	}{
		{
			name:   "live session",
			header: "Bearer good",
			setupMocks: func(t *testing.T, d *authDeps) {
				d.tokenSvc.VerifyAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return createTokenClaims(t, "user-1", "a@x.com", time.Minute), nil
				}
				d.sessionRepo.FindByEmailFunc = func(ctx context.Context, email string) *domain.Session {
					return createLiveSession(t, createValidUser(t))
				}
			},
		},
		{
			name:          "missing header",
			header:        "",
			expectedError: domain.ErrNoToken,
		},
		{
			name:          "wrong scheme",
			header:        "Basic dXNlcjpwYXNz",
			expectedError: domain.ErrNoToken,
		},
		{
			name:   "bad signature",
			header: "Bearer forged",
			setupMocks: func(t *testing.T, d *authDeps) {
				d.tokenSvc.VerifyAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return nil, domain.ErrInvalidSignature
				}
			},
			expectedError: domain.ErrTokenInvalid,
			expectDenied:  true,
		},
		{
			name:   "expired token",
			header: "Bearer old",
			setupMocks: func(t *testing.T, d *authDeps) {
				d.tokenSvc.VerifyAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return createTokenClaims(t, "user-1", "a@x.com", -time.Second), nil
				}
				d.sessionRepo.FindByEmailFunc = func(ctx context.Context, email string) *domain.Session {
					return createLiveSession(t, createValidUser(t))
				}
			},
			expectedError: domain.ErrTokenExpired,
			expectDenied:  true,
		},
		{
			name:   "no session",
			header: "Bearer good",
			setupMocks: func(t *testing.T, d *authDeps) {
				d.tokenSvc.VerifyAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return createTokenClaims(t, "user-1", "a@x.com", time.Minute), nil
				}
			},
			expectedError: domain.ErrTokenExpired,
			expectDenied:  true,
		},
		{
			name:   "session logged out",
			header: "Bearer good",
			setupMocks: func(t *testing.T, d *authDeps) {
				d.tokenSvc.VerifyAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
					return createTokenClaims(t, "user-1", "a@x.com", time.Minute), nil
				}
				d.sessionRepo.FindByEmailFunc = func(ctx context.Context, email string) *domain.Session {
					s := createLiveSession(t, createValidUser(t))
					now := time.Now()
					s.Invalidate(nil, &now)
					return s
				}
			},
			expectedError: domain.ErrTokenExpired,
			expectDenied:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newAuthDeps()
			if tt.setupMocks != nil {
				tt.setupMocks(t, d)
			}
			a := createAuthenticatorForTest(t, d)

			identity, err := a.Authenticate(createTestContext(t), tt.header)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				if identity != nil {
					t.Errorf("expected nil identity, got %+v", identity)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if identity.UserID != "user-1" || identity.Username != "a@x.com" {
					t.Errorf("unexpected identity: %+v", identity)
				}
			}

			if tt.expectDenied {
				assertEventTypes(t, d.audit, domain.AccessDeniedEvent)
			} else if len(d.audit.Events()) != 0 {
				t.Errorf("expected no audit events, got %v", d.audit.EventTypes())
			}
		})
	}
}

func TestAuthenticatorImpl_Identify(t *testing.T) {
	d := newAuthDeps()
	d.tokenSvc.VerifyAccessTokenFunc = func(token string) (*domain.TokenClaims, error) {
		if token != "signed" {
			return nil, domain.ErrInvalidSignature
		}
		return createTokenClaims(t, "user-1", "a@x.com", -time.Hour), nil
	}
	a := createAuthenticatorForTest(t, d)

	identity := a.Identify("Bearer signed")
	if identity == nil || identity.UserID != "user-1" {
		t.Errorf("expected identity of an expired but signed token, got %+v", identity)
	}
	if a.Identify("Bearer forged") != nil {
		t.Error("expected nil identity for a forged token")
	}
	if a.Identify("") != nil {
		t.Error("expected nil identity without a header")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{header: "Bearer abc", expected: "abc"},
		{header: "bearer abc", expected: "abc"},
		{header: "BEARER   abc", expected: "abc"},
		{header: "Bearer", expected: ""},
		{header: "Bearer a b", expected: ""},
		{header: "Token abc", expected: ""},
		{header: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := BearerToken(tt.header); got != tt.expected {
				t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.expected)
			}
		})
	}
}
