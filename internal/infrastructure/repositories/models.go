package repositories

import (
	"time"

	"github.com/you/authsvc/domain"
)

// DBAudit holds the bookkeeping columns shared by users and sessions
type DBAudit struct {
	CreatedBy string     `gorm:"column:created_by;size:64"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedBy *string    `gorm:"column:updated_by;size:64"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
	DeletedBy *string    `gorm:"column:deleted_by;size:64"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	Deleted   bool       `gorm:"column:deleted;index"`
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Email        string  `gorm:"uniqueIndex;size:255"`
	PasswordHash string  `gorm:"column:password"`
	Active       bool    `gorm:"column:active;index"`
	DBAudit      DBAudit `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID           string     `gorm:"primaryKey;size:36"`
	UserID       string     `gorm:"column:user_id;index;size:36"`
	Email        string     `gorm:"index;size:255"`
	AccessToken  *string    `gorm:"column:access_token"`
	RefreshToken *string    `gorm:"column:refresh_token;index"`
	LoginTime    time.Time  `gorm:"column:login_time"`
	ExpiredTime  *time.Time `gorm:"column:expired_time"`
	LogoutTime   *time.Time `gorm:"column:logout_time"`
	Active       bool       `gorm:"column:active"`
	DBAudit      DBAudit    `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

func auditToDB(a domain.Audit) DBAudit {
	return DBAudit{
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedBy: nullable(a.UpdatedBy),
		UpdatedAt: a.UpdatedAt,
		DeletedBy: nullable(a.DeletedBy),
		DeletedAt: a.DeletedAt,
		Deleted:   a.Deleted,
	}
}

func auditToDomain(a DBAudit) domain.Audit {
	return domain.Audit{
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedBy: deref(a.UpdatedBy),
		UpdatedAt: a.UpdatedAt,
		DeletedBy: deref(a.DeletedBy),
		DeletedAt: a.DeletedAt,
		Deleted:   a.Deleted,
	}
}

// nullable maps the empty string to SQL NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// stampCreate fills the creation columns when the caller left them empty
func stampCreate(a *domain.Audit, now time.Time) {
	if a.CreatedBy == "" {
		a.CreatedBy = domain.SystemActor
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
}
