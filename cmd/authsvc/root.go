package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/you/authsvc/internal/app"
	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command. Running it bare starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authsvc",
		Short: "authsvc - registration, login and session service",
		Long: `authsvc registers accounts with email verification and issues
access/refresh token pairs backed by a persisted session.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewDBCheckCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logging.LogError(context.Background(), logger, "server failed", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout), nil
}
