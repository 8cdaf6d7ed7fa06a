package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

const verificationSubject = "Verify your email address"

// AuthServiceImpl implements domain.AuthService. It owns the session state
// machine: NO_SESSION -> ACTIVE -> EXPIRED | LOGGED_OUT -> ACTIVE.
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	sessionRepo     domain.SessionRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	notificationSvc domain.NotificationService
	auditLogger     domain.AuditLogger
	logger          logging.Logger
	verifyBaseURL   string
	now             func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	notificationSvc domain.NotificationService,
	auditLogger domain.AuditLogger,
	logger logging.Logger,
	verifyBaseURL string,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		notificationSvc: notificationSvc,
		auditLogger:     auditLogger,
		logger:          logger.With("component", "auth_service"),
		verifyBaseURL:   strings.TrimRight(verifyBaseURL, "/"),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Register implements domain.AuthService. An unverified account registered
// again keeps its id, takes the new password and gets a fresh verification
// email.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	existing := s.userRepo.FindByEmail(ctx, email)
	if existing != nil && existing.Active {
		return nil, domain.ErrDuplicateActiveAccount
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if errors.Is(err, domain.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	now := s.now()
	user := existing
	eventType := domain.VerificationResentEvent

	if user != nil {
		user.PasswordHash = hashedPassword
		user.Touch(domain.SystemActor, now)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, oops.Code("USER_UPDATE_FAILED").With("user_id", user.ID).Wrap(err)
		}
	} else {
		user = &domain.User{
			Email:        email,
			PasswordHash: hashedPassword,
			Active:       false,
			Audit: domain.Audit{
				CreatedBy: domain.SystemActor,
				CreatedAt: now,
			},
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, oops.Code("USER_CREATE_FAILED").With("email", email).Wrap(err)
		}
		eventType = domain.UserRegistrationEvent
	}

	s.sendVerification(ctx, user.Email)
	s.audit(ctx, domain.NewAuditEvent(eventType, user.ID).WithEmail(user.Email))

	return user, nil
}

// sendVerification mails a verification link. Failures are logged and
// never fail the caller.
func (s *AuthServiceImpl) sendVerification(ctx context.Context, email string) {
	token, err := s.tokenSvc.IssueVerificationToken(email)
	if err != nil {
		logging.LogError(ctx, s.logger, "issue verification token failed",
			oops.Code("TOKEN_ISSUE_FAILED").With("email", email).Wrap(err))
		return
	}

	link := s.verifyBaseURL + "/" + token
	body := "Confirm your email address by opening this link:\n\n" + link + "\n"
	if err := s.notificationSvc.SendEmail(ctx, email, verificationSubject, body); err != nil {
		logging.LogError(ctx, s.logger, "send verification email failed", err)
	}
}

// VerifyEmail implements domain.AuthService. Any token failure, expiry
// included, is reported as ErrTokenExpired.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) (string, error) {
	claims, err := s.tokenSvc.VerifyVerificationToken(token)
	if err != nil || claims.Expired(s.now()) {
		return "", domain.ErrTokenExpired
	}

	user := s.userRepo.FindByEmail(ctx, claims.Username)
	if user == nil {
		return "", domain.ErrAccountNotFound
	}

	if !user.Active {
		if err := s.userRepo.Activate(ctx, user.ID); err != nil {
			return "", oops.Code("USER_ACTIVATE_FAILED").With("user_id", user.ID).Wrap(err)
		}
		s.audit(ctx, domain.NewAuditEvent(domain.EmailVerifiedEvent, user.ID).WithEmail(user.Email))
	}

	return user.Email, nil
}

// Login implements domain.AuthService. A wrong password is reported exactly
// like an unknown account.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user := s.userRepo.FindByEmail(ctx, email)
	if user == nil {
		s.auditFailure(ctx, domain.UserLoginFailureEvent, "", email, domain.ErrAccountNotFound)
		return nil, domain.ErrAccountNotFound
	}

	if !user.Active {
		s.auditFailure(ctx, domain.UserLoginFailureEvent, user.ID, email, domain.ErrInactiveAccount)
		return nil, domain.ErrInactiveAccount
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.auditFailure(ctx, domain.UserLoginFailureEvent, user.ID, email, domain.ErrAccountNotFound)
		return nil, domain.ErrAccountNotFound
	}

	accessToken, refreshToken, err := s.issuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := s.sessionRepo.FindByEmail(ctx, user.Email)
	if session == nil {
		session = &domain.Session{
			UserID: user.ID,
			Email:  user.Email,
			Audit: domain.Audit{
				CreatedBy: domain.SystemActor,
				CreatedAt: now,
			},
		}
		session.Reopen(accessToken, refreshToken, now)
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, oops.Code("SESSION_CREATE_FAILED").With("user_id", user.ID).Wrap(err)
		}
	} else {
		session.Reopen(accessToken, refreshToken, now)
		session.Touch(domain.SystemActor, now)
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return nil, oops.Code("SESSION_UPDATE_FAILED").With("session_id", session.ID).Wrap(err)
		}
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "session_id", session.ID)
	s.audit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email).WithSession(session.ID))

	return &domain.AuthResult{
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Renew implements domain.AuthService
func (s *AuthServiceImpl) Renew(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	session := s.sessionRepo.FindByRefreshToken(ctx, refreshToken)
	if session == nil {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.tokenSvc.VerifyRefreshToken(refreshToken)
	if err != nil || claims.Username != session.Email {
		return nil, domain.ErrTokenInvalid
	}

	now := s.now()
	if claims.Expired(now) {
		session.Invalidate(&now, nil)
		session.Touch(domain.SystemActor, now)
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			logging.LogError(ctx, s.logger, "mark session expired failed",
				oops.Code("SESSION_UPDATE_FAILED").With("session_id", session.ID).Wrap(err))
		}
		s.audit(ctx, domain.NewAuditEvent(domain.SessionExpiredEvent, session.UserID).
			WithEmail(session.Email).
			WithSession(session.ID).
			WithError(domain.ErrTokenExpired))
		return nil, domain.ErrTokenExpired
	}

	accessToken, newRefreshToken, err := s.issuePair(session.UserID, session.Email)
	if err != nil {
		return nil, err
	}

	session.AccessToken = accessToken
	session.RefreshToken = newRefreshToken
	session.Touch(domain.SystemActor, now)
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, oops.Code("SESSION_UPDATE_FAILED").With("session_id", session.ID).Wrap(err)
	}

	s.audit(ctx, domain.NewAuditEvent(domain.TokenRenewedEvent, session.UserID).WithEmail(session.Email).WithSession(session.ID))

	return &domain.AuthResult{
		Email:        session.Email,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout implements domain.AuthService. Logging out without a session, or
// from a session already logged out, is a successful no-op.
func (s *AuthServiceImpl) Logout(ctx context.Context, userID string) error {
	session := s.sessionRepo.FindByUserID(ctx, userID)
	if session == nil || session.LogoutTime != nil {
		return nil
	}

	now := s.now()
	session.Invalidate(nil, &now)
	session.Touch(domain.SystemActor, now)
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").With("session_id", session.ID).Wrap(err)
	}

	s.logger.Info(ctx, "user logged out", "user_id", userID, "session_id", session.ID)
	s.audit(ctx, domain.NewAuditEvent(domain.UserLogoutEvent, userID).WithEmail(session.Email).WithSession(session.ID))
	return nil
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	session := s.sessionRepo.FindByUserID(ctx, userID)
	if session == nil {
		return nil, domain.ErrAccountNotFound
	}
	return &domain.Profile{UserID: session.UserID, Email: session.Email}, nil
}

func (s *AuthServiceImpl) issuePair(userID, email string) (string, string, error) {
	accessToken, err := s.tokenSvc.IssueAccessToken(userID, email)
	if err != nil {
		return "", "", oops.Code("TOKEN_ISSUE_FAILED").With("kind", "access").Wrap(err)
	}

	refreshToken, err := s.tokenSvc.IssueRefreshToken(email)
	if err != nil {
		return "", "", oops.Code("TOKEN_ISSUE_FAILED").With("kind", "refresh").Wrap(err)
	}

	return accessToken, refreshToken, nil
}

func (s *AuthServiceImpl) auditFailure(ctx context.Context, eventType domain.AuditEventType, userID, email string, err error) {
	s.audit(ctx, domain.NewAuditEvent(eventType, userID).WithEmail(email).WithError(err))
}

// audit records event on a best-effort basis
func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if err := s.auditLogger.LogEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "audit event dropped", "event_type", event.EventType, "error", err)
	}
}
