package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
	"gorm.io/gorm"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Rows are never deleted; they stay behind as login history.
type SessionRepositoryImpl struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB, logger logging.Logger) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db, logger: logger.With("component", "session_repository")}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	stampCreate(&session.Audit, time.Now().UTC())

	return r.db.WithContext(ctx).Create(r.domainToDB(session)).Error
}

// FindByEmail implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByEmail(ctx context.Context, email string) *domain.Session {
	return r.findOne(ctx, "email", email,
		r.current().Where("email = ?", email))
}

// FindByUserID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByUserID(ctx context.Context, userID string) *domain.Session {
	return r.findOne(ctx, "user_id", userID,
		r.current().Where("user_id = ?", userID))
}

// FindByRefreshToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByRefreshToken(ctx context.Context, refreshToken string) *domain.Session {
	if refreshToken == "" {
		return nil
	}
	// log a prefix only, the token is a live credential
	return r.findOne(ctx, "refresh_token", prefix(refreshToken),
		r.current().Where("refresh_token = ? AND expired_time IS NULL AND logout_time IS NULL", refreshToken))
}

// Update implements domain.SessionRepository
func (r *SessionRepositoryImpl) Update(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Save(r.domainToDB(session)).Error
}

// current scopes a query to the active, non-deleted rows
func (r *SessionRepositoryImpl) current() *gorm.DB {
	return r.db.Model(&DBSession{}).Where("active = ? AND deleted = ?", true, false)
}

func (r *SessionRepositoryImpl) findOne(ctx context.Context, key, value string, query *gorm.DB) *domain.Session {
	var dbSession DBSession
	err := query.WithContext(ctx).Order("login_time DESC").First(&dbSession).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Error(ctx, "session lookup failed", key, value, "error", err)
		}
		return nil
	}
	return r.dbToDomain(&dbSession)
}

func prefix(token string) string {
	if len(token) > 8 {
		return token[:8] + "..."
	}
	return token
}

// domainToDB converts domain session to database session
func (r *SessionRepositoryImpl) domainToDB(session *domain.Session) *DBSession {
	return &DBSession{
		ID:           session.ID,
		UserID:       session.UserID,
		Email:        session.Email,
		AccessToken:  nullable(session.AccessToken),
		RefreshToken: nullable(session.RefreshToken),
		LoginTime:    session.LoginTime,
		ExpiredTime:  session.ExpiredTime,
		LogoutTime:   session.LogoutTime,
		Active:       session.Active,
		DBAudit:      auditToDB(session.Audit),
	}
}

// dbToDomain converts database session to domain session
func (r *SessionRepositoryImpl) dbToDomain(dbSession *DBSession) *domain.Session {
	return &domain.Session{
		ID:           dbSession.ID,
		UserID:       dbSession.UserID,
		Email:        dbSession.Email,
		AccessToken:  deref(dbSession.AccessToken),
		RefreshToken: deref(dbSession.RefreshToken),
		LoginTime:    dbSession.LoginTime,
		ExpiredTime:  dbSession.ExpiredTime,
		LogoutTime:   dbSession.LogoutTime,
		Active:       dbSession.Active,
		Audit:        auditToDomain(dbSession.DBAudit),
	}
}
