package repositories

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/infrastructure/database"
	"github.com/you/authsvc/internal/logging"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the real schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, user *DBUser) {
	t.Helper()
	if user.DBAudit.CreatedAt.IsZero() {
		user.DBAudit.CreatedAt = time.Now().UTC()
		user.DBAudit.CreatedBy = domain.SystemActor
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func TestUserRepositoryImpl_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logging.Nop())

	user := &domain.User{Email: "a@x.com", PasswordHash: "hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(user.ID) != 36 {
		t.Errorf("expected a uuid to be assigned, got %q", user.ID)
	}
	if user.CreatedBy != domain.SystemActor {
		t.Errorf("expected created by %q, got %q", domain.SystemActor, user.CreatedBy)
	}

	var stored DBUser
	if err := db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to read back user: %v", err)
	}
	if stored.Active {
		t.Error("expected user to be stored inactive")
	}
	if stored.DBAudit.UpdatedBy != nil || stored.DBAudit.UpdatedAt != nil {
		t.Error("expected update columns to be null on create")
	}

	// email is unique
	dup := &domain.User{Email: "a@x.com", PasswordHash: "other"}
	if err := repo.Create(context.Background(), dup); err == nil {
		t.Error("expected duplicate email to be rejected")
	}
}

func TestUserRepositoryImpl_FindByEmail(t *testing.T) {
	tests := []struct {
		name         string
		setupData    func(t *testing.T, db *gorm.DB)
		email        string
		expectedUser *domain.User
	}{
		{
			name: "active user",
			setupData: func(t *testing.T, db *gorm.DB) {
				seedUser(t, db, &DBUser{ID: "u1", Email: "active@x.com", PasswordHash: "h", Active: true})
			},
			email:        "active@x.com",
			expectedUser: &domain.User{ID: "u1", Email: "active@x.com", PasswordHash: "h", Active: true},
		},
		{
			name: "inactive user is still found",
			setupData: func(t *testing.T, db *gorm.DB) {
				seedUser(t, db, &DBUser{ID: "u2", Email: "pending@x.com", PasswordHash: "h"})
			},
			email:        "pending@x.com",
			expectedUser: &domain.User{ID: "u2", Email: "pending@x.com", PasswordHash: "h", Active: false},
		},
		{
			name: "soft-deleted user is invisible",
			setupData: func(t *testing.T, db *gorm.DB) {
				seedUser(t, db, &DBUser{ID: "u3", Email: "gone@x.com", PasswordHash: "h", Active: true,
					DBAudit: DBAudit{CreatedAt: time.Now().UTC(), CreatedBy: "system", Deleted: true}})
			},
			email:        "gone@x.com",
			expectedUser: nil,
		},
		{
			name: "email match is case-sensitive",
			setupData: func(t *testing.T, db *gorm.DB) {
				seedUser(t, db, &DBUser{ID: "u4", Email: "Case@X.com", PasswordHash: "h", Active: true})
			},
			email:        "case@x.com",
			expectedUser: nil,
		},
		{
			name:         "email not found",
			setupData:    func(t *testing.T, db *gorm.DB) {},
			email:        "nobody@x.com",
			expectedUser: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tt.setupData(t, db)
			repo := NewUserRepository(db, logging.Nop())

			user := repo.FindByEmail(context.Background(), tt.email)

			if tt.expectedUser == nil {
				if user != nil {
					t.Errorf("expected no user, got %+v", user)
				}
				return
			}
			if user == nil {
				t.Fatal("user is nil")
			}
			if user.ID != tt.expectedUser.ID {
				t.Errorf("expected ID %s, got %s", tt.expectedUser.ID, user.ID)
			}
			if user.Email != tt.expectedUser.Email {
				t.Errorf("expected email %s, got %s", tt.expectedUser.Email, user.Email)
			}
			if user.Active != tt.expectedUser.Active {
				t.Errorf("expected active %v, got %v", tt.expectedUser.Active, user.Active)
			}
			if user.PasswordHash != tt.expectedUser.PasswordHash {
				t.Errorf("expected password hash %s, got %s", tt.expectedUser.PasswordHash, user.PasswordHash)
			}
		})
	}
}

func TestUserRepositoryImpl_FindByEmail_FailSoft(t *testing.T) {
	db := setupTestDB(t)
	var buf bytes.Buffer
	repo := NewUserRepository(db, logging.New("json", "info", &buf))

	sqlDB, _ := db.DB()
	sqlDB.Close()

	if user := repo.FindByEmail(context.Background(), "a@x.com"); user != nil {
		t.Errorf("expected nil on store failure, got %+v", user)
	}
	if !strings.Contains(buf.String(), "user lookup failed") {
		t.Errorf("expected store failure to be logged, got %q", buf.String())
	}
}

func TestUserRepositoryImpl_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, logging.Nop())
	ctx := context.Background()

	user := &domain.User{Email: "a@x.com", PasswordHash: "old"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user.PasswordHash = "new"
	user.Touch(domain.SystemActor, time.Now().UTC())
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := repo.FindByEmail(ctx, "a@x.com")
	if found == nil {
		t.Fatal("user is nil")
	}
	if found.ID != user.ID {
		t.Errorf("expected same id %s, got %s", user.ID, found.ID)
	}
	if found.PasswordHash != "new" {
		t.Errorf("expected password hash to be updated, got %s", found.PasswordHash)
	}
	if found.UpdatedBy != domain.SystemActor || found.UpdatedAt == nil {
		t.Errorf("expected update columns to be stamped, got %+v", found.Audit)
	}
}

func TestUserRepositoryImpl_Activate(t *testing.T) {
	tests := []struct {
		name      string
		setupData func(t *testing.T, db *gorm.DB)
		userID    string
		expected  bool
	}{
		{
			name: "inactive user becomes active",
			setupData: func(t *testing.T, db *gorm.DB) {
				seedUser(t, db, &DBUser{ID: "u1", Email: "a@x.com", PasswordHash: "h"})
			},
			userID:   "u1",
			expected: true,
		},
		{
			name: "idempotent activation",
			setupData: func(t *testing.T, db *gorm.DB) {
				seedUser(t, db, &DBUser{ID: "u1", Email: "a@x.com", PasswordHash: "h", Active: true})
			},
			userID:   "u1",
			expected: true,
		},
		{
			name:      "unknown user is a no-op",
			setupData: func(t *testing.T, db *gorm.DB) {},
			userID:    "missing",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			tt.setupData(t, db)
			repo := NewUserRepository(db, logging.Nop())

			if err := repo.Activate(context.Background(), tt.userID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var count int64
			db.Model(&DBUser{}).Where("id = ? AND active = ?", tt.userID, true).Count(&count)
			if (count == 1) != tt.expected {
				t.Errorf("expected active=%v, found %d active rows", tt.expected, count)
			}
		})
	}
}
