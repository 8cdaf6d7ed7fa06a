package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/response"
	"github.com/you/authsvc/internal/logging"
)

// Context keys holding the authenticated caller
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextIdentity = "identity"
)

// AuthMW wraps the request authenticator for gin
type AuthMW struct {
	authn  domain.Authenticator
	logger logging.Logger
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(authn domain.Authenticator, logger logging.Logger) *AuthMW {
	return &AuthMW{
		authn:  authn,
		logger: logger.With("component", "auth_middleware"),
	}
}

// WithJWT requires a live access token and aborts with the error envelope
// otherwise
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := mw.authn.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, mw.logger, err)
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// Optional attaches the caller when the header carries a correctly signed
// access token, expired or not, and lets anonymous requests through
func (mw *AuthMW) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := mw.authn.Identify(c.GetHeader("Authorization")); identity != nil {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by WithJWT or Optional
func CurrentIdentity(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok
}

func setIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(ContextUserID, identity.UserID)
	c.Set(ContextUsername, identity.Username)
	c.Set(ContextIdentity, identity)
}
