package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/you/authsvc/internal/infrastructure/database"
)

const dbCheckTimeout = 10 * time.Second

// NewDBCheckCmd creates the db-check subcommand.
func NewDBCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-check",
		Short: "Verify database connectivity and schema",
		Long: `Connect to the configured database, ping it and count the rows of
the users and sessions tables.`,
		RunE: runDBCheck,
	}
}

func runDBCheck(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), dbCheckTimeout)
	defer cancel()

	cmd.Printf("Connecting to %s database...\n", cfg.DBDriver)
	if cfg.DBDriver == database.DriverPostgres {
		return checkPostgres(ctx, cmd, cfg.DSN)
	}
	return checkGorm(ctx, cmd, cfg.DBDriver, cfg.DSN)
}

func checkPostgres(ctx context.Context, cmd *cobra.Command, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer conn.Close(context.Background())

	if err := conn.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	cmd.Println("Database connection successful")

	for _, table := range []string{"users", "sessions"} {
		var count int64
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return oops.Code("DB_SCHEMA_MISSING").With("table", table).Wrap(err)
		}
		cmd.Printf("Table %s accessible (rows: %d)\n", table, count)
	}
	return nil
}

func checkGorm(ctx context.Context, cmd *cobra.Command, driver, dsn string) error {
	db, err := database.Open(database.Options{Driver: driver, DSN: dsn, LogLevel: "silent"})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("driver", driver).Wrap(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("driver", driver).Wrap(err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	cmd.Println("Database connection successful")

	for _, table := range []string{"users", "sessions"} {
		var count int64
		if err := db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			return oops.Code("DB_SCHEMA_MISSING").With("table", table).Wrap(err)
		}
		cmd.Printf("Table %s accessible (rows: %d)\n", table, count)
	}
	return nil
}
