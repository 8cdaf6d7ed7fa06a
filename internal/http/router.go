package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/metrics"
)

// BuildRouter mounts the auth routes, the health check and the metrics endpoint
func BuildRouter(ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW, m *metrics.Metrics, logger logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Metrics(m))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/renew-token", ah.Renew)
	auth.GET("/verify/:token", ah.VerifyEmail)
	auth.GET("/logout", jwtmw.Optional(), ah.Logout)
	auth.GET("/get-profile", jwtmw.WithJWT(), ah.Profile)

	return r
}
