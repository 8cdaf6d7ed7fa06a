package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/http/response"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/metrics"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
	metrics *metrics.Metrics
	logger  logging.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, m *metrics.Metrics, logger logging.Logger) *AuthHandlers {
	response.UseJSONFieldNames()
	return &AuthHandlers{
		authSvc: authSvc,
		metrics: m,
		logger:  logger.With("component", "auth_handlers"),
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RenewRequest represents token renewal request
type RenewRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse is returned by login and renew-token
type TokenResponse struct {
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterResponse is returned by register
type RegisterResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// ProfileResponse is returned by get-profile
type ProfileResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// VerifyResponse is returned by verify
type VerifyResponse struct {
	Email string `json:"email"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, "register", &req) {
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordOperation("register", err)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Created(c, RegisterResponse{
		ID:     user.ID,
		Email:  user.Email,
		Active: user.Active,
	})
}

// VerifyEmail handles the link sent by email after registration
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	email, err := h.authSvc.VerifyEmail(c.Request.Context(), c.Param("token"))
	h.metrics.RecordOperation("verify_email", err)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.OK(c, VerifyResponse{Email: email})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, "login", &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordOperation("login", err)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.OK(c, tokenResponse(result))
}

// Renew handles token renewal
func (h *AuthHandlers) Renew(c *gin.Context) {
	var req RenewRequest
	if !h.bind(c, "renew", &req) {
		return
	}

	result, err := h.authSvc.Renew(c.Request.Context(), req.RefreshToken)
	h.metrics.RecordOperation("renew", err)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.OK(c, tokenResponse(result))
}

// Logout handles user logout. Anonymous callers get the same empty success.
func (h *AuthHandlers) Logout(c *gin.Context) {
	var err error
	if userID := c.GetString(middleware.ContextUserID); userID != "" {
		err = h.authSvc.Logout(c.Request.Context(), userID)
	}
	h.metrics.RecordOperation("logout", err)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.OK(c, gin.H{})
}

// Profile handles getting the current session owner (requires authentication)
func (h *AuthHandlers) Profile(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		response.Error(c, h.logger, domain.ErrNoToken)
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), userID)
	h.metrics.RecordOperation("get_profile", err)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.OK(c, ProfileResponse{UserID: profile.UserID, Email: profile.Email})
}

func (h *AuthHandlers) bind(c *gin.Context, operation string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.metrics.RecordOperation(operation, domain.ErrValidation)
		response.Invalid(c, response.FieldErrors(err))
		return false
	}
	return true
}

func tokenResponse(result *domain.AuthResult) TokenResponse {
	return TokenResponse{
		Email:        result.Email,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}
