package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError = validation.FieldError

const (
	msgRegistered       = "User registered successfully"
	msgLoggedIn         = "Login successful"
	msgProfile          = "Profile retrieved successfully"
	msgLoggedOut        = "Logout successful. Please remove token from client side."
	msgRegisterFailed   = "Registration failed"
	msgLoginFailed      = "Login failed"
	msgProfileFailed    = "Failed to retrieve profile"
	msgVerifyFailed     = "Token verification failed"
	msgInternal         = "Internal server error"
	msgValidation       = "Validation failed"
	msgInvalidToken     = "Invalid token"
	msgServiceHealthy   = "Service is healthy"
	msgStoreReachable   = "Database connection is healthy"
	msgStoreUnreachable = "Database connection is unavailable"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// statusByError maps error kinds to HTTP statuses. First match wins.
var statusByError = []errorMapping{
	{common.ErrValidation, http.StatusBadRequest, msgValidation},
	{common.ErrDuplicateAccount, http.StatusConflict, "User already exists with this email"},
	{common.ErrAccountDeactivated, http.StatusUnauthorized, "Account is deactivated"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{common.ErrorNotFound, http.StatusNotFound, "User not found"},
	{common.ErrMissingToken, http.StatusUnauthorized, "Access token is required"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Token expired"},
	{common.ErrInvalidToken, http.StatusUnauthorized, msgInvalidToken},
}

// classify returns the status and client message for err. Unknown errors
// map to 500 with fallback.
func classify(err error, fallback string) (int, string, bool) {
	for _, m := range statusByError {
		if errors.Is(err, m.target) {
			return m.status, m.message, true
		}
	}
	return http.StatusInternalServerError, fallback, false
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Status: statusSuccess, Message: message, Data: data})
}

func respondValidation(c *gin.Context, fields []FieldError) {
	respondError(c, fmt.Errorf("%w: %v", common.ErrValidation, validation.Join(fields)), msgValidation, false, fields...)
}

// respondError writes the envelope for err and aborts the chain. Internal
// detail is exposed only when debug is set.
func respondError(c *gin.Context, err error, fallback string, debug bool, fields ...FieldError) {
	status, message, known := classify(err, fallback)

	body := Envelope{Status: statusError, Message: message, Errors: fields}
	if !known && debug {
		body.Error = err.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
