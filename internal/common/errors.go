// Package common defines shared constants and sentinel errors used across
// the auth server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrStoreUnavailable wraps any persistence failure that has no more
	// specific meaning.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Service-level errors.
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateAccount   = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")

	// Auth gate errors.
	ErrMissingToken = errors.New("access token is required")
	ErrInvalidToken = errors.New("invalid token")

	// Token verification errors. ErrMalformedToken and ErrInvalidSignature
	// wrap ErrInvalidToken.
	ErrMalformedToken   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrInvalidSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
	ErrTokenExpired     = errors.New("token expired")
)
