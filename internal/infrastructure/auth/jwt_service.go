package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/you/authsvc/domain"
)

// TokenConfig holds the per-kind signing secrets and lifetimes
type TokenConfig struct {
	Issuer        string
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	VerifySecret  string
	VerifyTTL     time.Duration
}

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	issuer          string
	accessSecret    []byte
	accessTokenTTL  time.Duration
	refreshSecret   []byte
	refreshTokenTTL time.Duration
	verifySecret    []byte
	verifyTokenTTL  time.Duration
}

type accessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type verificationClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg TokenConfig) domain.TokenService {
	return &JWTServiceImpl{
		issuer:          cfg.Issuer,
		accessSecret:    []byte(cfg.AccessSecret),
		accessTokenTTL:  cfg.AccessTTL,
		refreshSecret:   []byte(cfg.RefreshSecret),
		refreshTokenTTL: cfg.RefreshTTL,
		verifySecret:    []byte(cfg.VerifySecret),
		verifyTokenTTL:  cfg.VerifyTTL,
	}
}

func (j *JWTServiceImpl) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(), // two tokens minted in the same second still differ
	}
}

// IssueAccessToken implements domain.TokenService
func (j *JWTServiceImpl) IssueAccessToken(userID, email string) (string, error) {
	claims := accessClaims{
		UserID:           userID,
		Username:         email,
		RegisteredClaims: j.registered(j.accessTokenTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.accessSecret)
}

// IssueRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) IssueRefreshToken(email string) (string, error) {
	claims := refreshClaims{
		Username:         email,
		RegisteredClaims: j.registered(j.refreshTokenTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.refreshSecret)
}

// IssueVerificationToken implements domain.TokenService
func (j *JWTServiceImpl) IssueVerificationToken(email string) (string, error) {
	claims := verificationClaims{
		Email:            email,
		RegisteredClaims: j.registered(j.verifyTokenTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.verifySecret)
}

// VerifyAccessToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyAccessToken(tokenString string) (*domain.TokenClaims, error) {
	var claims accessClaims
	if err := j.parse(tokenString, &claims, j.accessSecret); err != nil {
		return nil, err
	}
	return toTokenClaims(claims.RegisteredClaims, claims.UserID, claims.Username), nil
}

// VerifyRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyRefreshToken(tokenString string) (*domain.TokenClaims, error) {
	var claims refreshClaims
	if err := j.parse(tokenString, &claims, j.refreshSecret); err != nil {
		return nil, err
	}
	return toTokenClaims(claims.RegisteredClaims, "", claims.Username), nil
}

// VerifyVerificationToken implements domain.TokenService
func (j *JWTServiceImpl) VerifyVerificationToken(tokenString string) (*domain.TokenClaims, error) {
	var claims verificationClaims
	if err := j.parse(tokenString, &claims, j.verifySecret); err != nil {
		return nil, err
	}
	return toTokenClaims(claims.RegisteredClaims, "", claims.Email), nil
}

// parse checks structure and signature only. Time based claims are left to
// the caller so an expired but authentic token stays distinguishable from a
// forged one.
func (j *JWTServiceImpl) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSignature
		}
		return secret, nil
	}, jwt.WithoutClaimsValidation())

	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	default:
		return domain.ErrInvalidSignature
	}
}

func toTokenClaims(rc jwt.RegisteredClaims, userID, username string) *domain.TokenClaims {
	tc := &domain.TokenClaims{
		ID:       rc.ID,
		UserID:   userID,
		Username: username,
	}
	if rc.IssuedAt != nil {
		tc.IssuedAt = rc.IssuedAt.Unix()
	}
	// A token without exp decodes as expired
	if rc.ExpiresAt != nil {
		tc.ExpiresAt = rc.ExpiresAt.Unix()
	}
	return tc
}
