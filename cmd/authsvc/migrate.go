package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/you/authsvc/internal/infrastructure/database"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations to the configured database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	db, err := database.Open(database.Options{Driver: cfg.DBDriver, DSN: cfg.DSN, LogLevel: cfg.DBLogLevel})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("driver", cfg.DBDriver).Wrap(err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	cmd.Println("Running migrations...")
	if err := database.Migrate(cmd.Context(), db, cfg.DBDriver); err != nil {
		return oops.Code("MIGRATION_FAILED").With("driver", cfg.DBDriver).Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
