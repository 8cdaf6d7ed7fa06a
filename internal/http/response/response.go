// Package response renders every HTTP reply in the service's envelope and
// maps domain errors onto status codes and numeric error codes.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/logging"
)

// Error codes carried in the envelope. 0 means success.
const (
	CodeOK               = 0
	CodeNoToken          = 1001
	CodeTokenInvalid     = 1002
	CodeTokenExpired     = 1003
	CodeInactiveAccount  = 2001
	CodeAccountNotFound  = 2002
	CodeDuplicateAccount = 3001
	CodeValidation       = 3002
	CodeInternal         = 6001
)

// FieldError maps a request field to what is wrong with it
type FieldError map[string]string

// Envelope is the body of every response
type Envelope struct {
	Data      interface{}  `json:"data"`
	ErrorCode int          `json:"errorCode"`
	Message   *string      `json:"message"`
	Errors    []FieldError `json:"errors"`
}

type mapping struct {
	target error
	status int
	code   int
}

var mappings = []mapping{
	{domain.ErrNoToken, http.StatusUnauthorized, CodeNoToken},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, CodeTokenInvalid},
	{domain.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
	{domain.ErrInactiveAccount, http.StatusForbidden, CodeInactiveAccount},
	{domain.ErrAccountNotFound, http.StatusNotFound, CodeAccountNotFound},
	{domain.ErrDuplicateActiveAccount, http.StatusConflict, CodeDuplicateAccount},
	{domain.ErrValidation, http.StatusBadRequest, CodeValidation},
}

// Lookup returns the HTTP status, envelope code and public message for err.
// Anything outside the domain taxonomy is an internal error whose detail is
// never exposed.
func Lookup(err error) (int, int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.target.Error()
		}
	}
	return http.StatusInternalServerError, CodeInternal, domain.ErrInternal.Error()
}

// OK writes a 200 envelope around data
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Data: data, ErrorCode: CodeOK})
}

// Created writes a 201 envelope around data
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Data: data, ErrorCode: CodeOK})
}

// Error writes the envelope for err. Internal errors are logged first.
func Error(c *gin.Context, logger logging.Logger, err error) {
	status, body := build(c, logger, err)
	c.JSON(status, body)
}

// Abort is Error for middleware: it also stops the handler chain
func Abort(c *gin.Context, logger logging.Logger, err error) {
	status, body := build(c, logger, err)
	c.AbortWithStatusJSON(status, body)
}

// Invalid writes a 400 validation envelope listing the offending fields
func Invalid(c *gin.Context, fields []FieldError) {
	msg := domain.ErrValidation.Error()
	c.JSON(http.StatusBadRequest, Envelope{
		ErrorCode: CodeValidation,
		Message:   &msg,
		Errors:    fields,
	})
}

func build(c *gin.Context, logger logging.Logger, err error) (int, Envelope) {
	status, code, msg := Lookup(err)
	if code == CodeInternal {
		logging.LogError(c.Request.Context(), logger, "request failed", err,
			"method", c.Request.Method, "path", c.Request.URL.Path)
	}
	return status, Envelope{ErrorCode: code, Message: &msg}
}
