package domain

import "errors"

// Account errors
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrInactiveAccount        = errors.New("account is inactive")
	ErrDuplicateActiveAccount = errors.New("an active account with this email already exists")
)

// Token errors
var (
	ErrNoToken          = errors.New("no token")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenMalformed   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Request errors
var (
	ErrValidation = errors.New("validation failed")
	ErrInternal   = errors.New("internal server error")
)
