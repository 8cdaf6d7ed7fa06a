package app

import (
	"context"
	"net/http"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/config"
	httpx "github.com/you/authsvc/internal/http"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/infrastructure/audit"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/infrastructure/database"
	"github.com/you/authsvc/internal/infrastructure/notifications"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/metrics"
	"github.com/you/authsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger logging.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *database.RedisClient
	Metrics     *metrics.Metrics

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuditLogger     domain.AuditLogger
	AuthSvc         domain.AuthService
	Authenticator   domain.Authenticator
}

// NewContainer creates and initializes all dependencies. The schema is
// migrated before any repository is built.
func NewContainer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	container := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	// Initialize infrastructure
	if err := container.initDatabase(ctx); err != nil {
		return nil, err
	}
	container.initAudit(ctx)

	// Initialize repositories
	container.initRepositories()

	// Initialize services
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	db, err := database.Open(database.Options{
		Driver:   c.Config.DBDriver,
		DSN:      c.Config.DSN,
		LogLevel: c.Config.DBLogLevel,
	})
	if err != nil {
		return oops.Code("DB_OPEN_FAILED").With("driver", c.Config.DBDriver).Wrap(err)
	}
	c.DB = db

	if err := database.Migrate(ctx, db, c.Config.DBDriver); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return oops.Code("DB_MIGRATE_FAILED").With("driver", c.Config.DBDriver).Wrap(err)
	}
	return nil
}

// initAudit selects the audit sink. Redis is optional: without an address,
// or when it cannot be reached at startup, events go to the log instead.
func (c *Container) initAudit(ctx context.Context) {
	if c.Config.RedisAddr == "" {
		c.AuditLogger = audit.NewLogAuditLogger(c.Logger)
		return
	}

	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		c.Logger.Warn(ctx, "redis unreachable, audit events go to the log", "addr", c.Config.RedisAddr, "error", err)
		_ = rdb.Close()
		c.AuditLogger = audit.NewLogAuditLogger(c.Logger)
		return
	}

	c.RedisClient = rdb
	c.AuditLogger = audit.NewRedisAuditLogger(rdb.Client, c.Config.AuditStream)
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB, c.Logger)
	c.SessionRepo = repositories.NewSessionRepository(c.DB, c.Logger)
}

func (c *Container) initServices() {
	// Initialize basic services
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.TokenSvc = auth.NewJWTService(auth.TokenConfig{
		Issuer:        c.Config.JWTIssuer,
		AccessSecret:  c.Config.AccessSecret,
		AccessTTL:     c.Config.AccessTTL,
		RefreshSecret: c.Config.RefreshSecret,
		RefreshTTL:    c.Config.RefreshTTL,
		VerifySecret:  c.Config.VerifySecret,
		VerifyTTL:     c.Config.VerifyTTL,
	})
	c.NotificationSvc = notifications.NewSendGridService(
		c.Config.SendGridAPIKey,
		c.Config.MailFromAddress,
		c.Config.MailFromName,
		c.Logger,
	)

	// Initialize auth service (depends on all other services)
	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.NotificationSvc,
		c.AuditLogger,
		c.Logger,
		c.Config.VerifyBaseURL,
	)
	c.Authenticator = services.NewAuthenticator(c.TokenSvc, c.SessionRepo, c.AuditLogger, c.Logger)
}

// Router builds the HTTP handler tree over the container's services
func (c *Container) Router() http.Handler {
	authH := handlers.NewAuthHandlers(c.AuthSvc, c.Metrics, c.Logger)
	jwtMW := middleware.NewAuthMW(c.Authenticator, c.Logger)
	return httpx.BuildRouter(authH, jwtMW, c.Metrics, c.Logger)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
