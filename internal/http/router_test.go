package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/metrics"
	"github.com/you/authsvc/internal/mocks"
)

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	r := BuildRouter(
		handlers.NewAuthHandlers(mocks.NewMockAuthService(), m, logging.Nop()),
		middleware.NewAuthMW(mocks.NewMockAuthenticator(), logging.Nop()),
		m,
		logging.Nop(),
	)

	routes := map[string]bool{}
	for _, ri := range r.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"POST /auth/register",
		"POST /auth/login",
		"POST /auth/renew-token",
		"GET /auth/verify/:token",
		"GET /auth/logout",
		"GET /auth/get-profile",
		"GET /health",
		"GET /metrics",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/get-profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "authsvc_http_request_duration_seconds"))
}
