package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/authsvc/domain"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Issuer:        "authsvc-test",
		AccessSecret:  "access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    time.Hour,
		VerifySecret:  "verify-secret",
		VerifyTTL:     24 * time.Hour,
	}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testTokenConfig())

	token, err := svc.IssueAccessToken("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("expected user id %q, got %q", "user-1", claims.UserID)
	}
	if claims.Username != "a@x.com" {
		t.Errorf("expected username %q, got %q", "a@x.com", claims.Username)
	}
	if claims.ID == "" {
		t.Error("expected a jti")
	}
	if claims.Expired(time.Now()) {
		t.Error("expected fresh token not to be expired")
	}
	if claims.ExpiresAt-claims.IssuedAt != int64((15 * time.Minute).Seconds()) {
		t.Errorf("expected 15m lifetime, got %ds", claims.ExpiresAt-claims.IssuedAt)
	}
}

func TestJWTService_RefreshAndVerificationRoundTrip(t *testing.T) {
	svc := NewJWTService(testTokenConfig())

	refresh, err := svc.IssueRefreshToken("a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rc, err := svc.VerifyRefreshToken(refresh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rc.Username != "a@x.com" || rc.UserID != "" {
		t.Errorf("unexpected refresh claims: %+v", rc)
	}

	verify, err := svc.IssueVerificationToken("a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vc, err := svc.VerifyVerificationToken(verify)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vc.Username != "a@x.com" {
		t.Errorf("expected verification email %q, got %q", "a@x.com", vc.Username)
	}
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := NewJWTService(testTokenConfig())

	first, _ := svc.IssueRefreshToken("a@x.com")
	second, _ := svc.IssueRefreshToken("a@x.com")

	if first == second {
		t.Error("expected two refresh tokens minted back to back to differ")
	}
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	svc := NewJWTService(testTokenConfig())

	access, _ := svc.IssueAccessToken("user-1", "a@x.com")
	refresh, _ := svc.IssueRefreshToken("a@x.com")
	verify, _ := svc.IssueVerificationToken("a@x.com")

	tests := []struct {
		name   string
		verify func(string) (*domain.TokenClaims, error)
		token  string
	}{
		{name: "refresh token as access", verify: svc.VerifyAccessToken, token: refresh},
		{name: "access token as refresh", verify: svc.VerifyRefreshToken, token: access},
		{name: "access token as verification", verify: svc.VerifyVerificationToken, token: access},
		{name: "verification token as access", verify: svc.VerifyAccessToken, token: verify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.verify(tt.token)
			if !errors.Is(err, domain.ErrInvalidSignature) {
				t.Errorf("expected ErrInvalidSignature, got %v", err)
			}
		})
	}
}

func TestJWTService_VerifyFailures(t *testing.T) {
	svc := NewJWTService(testTokenConfig())
	other := NewJWTService(TokenConfig{AccessSecret: "someone-else", AccessTTL: time.Minute})
	forged, _ := other.IssueAccessToken("user-1", "a@x.com")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"username": "a@x.com"})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{name: "empty", token: "", expectedErr: domain.ErrTokenMalformed},
		{name: "garbage", token: "not-a-token", expectedErr: domain.ErrTokenMalformed},
		{name: "bad segments", token: "a.b.c", expectedErr: domain.ErrTokenMalformed},
		{name: "wrong secret", token: forged, expectedErr: domain.ErrInvalidSignature},
		{name: "alg none", token: unsigned, expectedErr: domain.ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.VerifyAccessToken(tt.token)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected error %v, got %v", tt.expectedErr, err)
			}
			if claims != nil {
				t.Errorf("expected nil claims, got %+v", claims)
			}
		})
	}
}

func TestJWTService_ExpiredTokenStillDecodes(t *testing.T) {
	cfg := testTokenConfig()
	cfg.AccessTTL = 0
	cfg.RefreshTTL = -time.Minute
	svc := NewJWTService(cfg)

	access, _ := svc.IssueAccessToken("user-1", "a@x.com")
	ac, err := svc.VerifyAccessToken(access)
	if err != nil {
		t.Fatalf("expected expired token to decode, got %v", err)
	}
	if !ac.Expired(time.Now()) {
		t.Error("expected zero-ttl access token to be expired")
	}

	refresh, _ := svc.IssueRefreshToken("a@x.com")
	rc, err := svc.VerifyRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected expired token to decode, got %v", err)
	}
	if !rc.Expired(time.Now()) {
		t.Error("expected past-expiry refresh token to be expired")
	}
}
