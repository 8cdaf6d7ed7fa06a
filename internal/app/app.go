package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until ctx is cancelled, then drains in-flight requests
func Run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	gin.SetMode(cfg.GinMode)

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn(context.Background(), "close container", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	logger.Info(ctx, "listening", "addr", srv.Addr, "db_driver", cfg.DBDriver)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return oops.Code("HTTP_SHUTDOWN_FAILED").Wrap(err)
		}
		logger.Info(context.Background(), "server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return oops.Code("HTTP_SERVE_FAILED").With("addr", srv.Addr).Wrap(err)
	}
}
