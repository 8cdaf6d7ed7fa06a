package database

import (
	"context"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
	"github.com/you/authsvc/internal/infrastructure/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options selects and tunes the backing store
type Options struct {
	Driver   string
	DSN      string
	LogLevel string
}

// Open creates a new database connection for the configured driver
func Open(opts Options) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(opts.LogLevel)),
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "":
		dialector = postgres.Open(opts.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	default:
		return nil, oops.Code("DB_DRIVER_UNSUPPORTED").With("driver", opts.Driver).Errorf("unsupported database driver")
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("driver", opts.Driver).Wrap(err)
	}

	if opts.Driver == DriverSQLite {
		// an in-memory database lives and dies with its single connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate applies the embedded goose migrations for the given driver
func Migrate(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "get sql db").Wrap(err)
	}

	dialect := "postgres"
	if driver == DriverSQLite {
		dialect = "sqlite3"
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return oops.Code("MIGRATION_FAILED").With("dialect", dialect).Wrap(err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}
