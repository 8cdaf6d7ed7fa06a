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

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logging.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger logging.Logger) domain.UserRepository {
	return &UserRepositoryImpl{db: db, logger: logger.With("component", "user_repository")}
}

// Create implements domain.UserRepository. An empty ID is assigned a UUID.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stampCreate(&user.Audit, time.Now().UTC())

	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Create(dbUser).Error
}

// FindByEmail implements domain.UserRepository. Soft-deleted users are
// invisible; active and inactive users are both returned.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) *domain.User {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("email = ? AND deleted = ?", email, false).
		First(&dbUser).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Error(ctx, "user lookup failed", "email", email, "error", err)
		}
		return nil
	}
	return r.dbToDomain(&dbUser)
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// Activate implements domain.UserRepository. Activating an already active or
// unknown user is not an error.
func (r *UserRepositoryImpl) Activate(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"active":     true,
			"updated_by": domain.SystemActor,
			"updated_at": now,
		}).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Active:       user.Active,
		DBAudit:      auditToDB(user.Audit),
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		Email:        dbUser.Email,
		PasswordHash: dbUser.PasswordHash,
		Active:       dbUser.Active,
		Audit:        auditToDomain(dbUser.DBAudit),
	}
}
