package services

import (
	"context"
	"strings"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// AuthenticatorImpl implements domain.Authenticator. A token passes only if
// it is correctly signed, unexpired, and its owner's session still holds an
// access token, so logout revokes tokens that have not expired yet.
type AuthenticatorImpl struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
	auditLogger domain.AuditLogger
	logger      logging.Logger
	now         func() time.Time
}

// NewAuthenticator creates a new request authenticator
func NewAuthenticator(
	tokenSvc domain.TokenService,
	sessionRepo domain.SessionRepository,
	auditLogger domain.AuditLogger,
	logger logging.Logger,
) domain.Authenticator {
	return &AuthenticatorImpl{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
		auditLogger: auditLogger,
		logger:      logger.With("component", "authenticator"),
		now:         time.Now,
	}
}

// Authenticate implements domain.Authenticator
func (a *AuthenticatorImpl) Authenticate(ctx context.Context, authorization string) (*domain.Identity, error) {
	token := BearerToken(authorization)
	if token == "" {
		return nil, domain.ErrNoToken
	}

	claims, err := a.tokenSvc.VerifyAccessToken(token)
	if err != nil {
		a.deny(ctx, "", "", domain.ErrTokenInvalid)
		return nil, domain.ErrTokenInvalid
	}

	if claims.Expired(a.now()) {
		a.deny(ctx, claims.UserID, claims.Username, domain.ErrTokenExpired)
		return nil, domain.ErrTokenExpired
	}

	session := a.sessionRepo.FindByEmail(ctx, claims.Username)
	if session == nil || session.AccessToken == "" {
		a.deny(ctx, claims.UserID, claims.Username, domain.ErrTokenExpired)
		return nil, domain.ErrTokenExpired
	}

	return &domain.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// Identify implements domain.Authenticator
func (a *AuthenticatorImpl) Identify(authorization string) *domain.Identity {
	token := BearerToken(authorization)
	if token == "" {
		return nil
	}

	claims, err := a.tokenSvc.VerifyAccessToken(token)
	if err != nil {
		return nil
	}
	return &domain.Identity{UserID: claims.UserID, Username: claims.Username}
}

func (a *AuthenticatorImpl) deny(ctx context.Context, userID, email string, reason error) {
	a.logger.Debug(ctx, "access denied", "user_id", userID, "reason", reason)
	event := domain.NewAuditEvent(domain.AccessDeniedEvent, userID).WithEmail(email).WithError(reason)
	if err := a.auditLogger.LogEvent(ctx, event); err != nil {
		a.logger.Warn(ctx, "audit event dropped", "event_type", event.EventType, "error", err)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is case-insensitive.
func BearerToken(authorization string) string {
	parts := strings.Fields(authorization)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
