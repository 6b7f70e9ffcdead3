// Package auth implements the credential and token primitives of the server:
// bcrypt password hashing, HS256 bearer tokens and the identity carried in a
// request context once a token has been verified.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user data embedded in a token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Claims is the token payload: the registered iat/exp claims plus the
// identity fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Identity returns the identity part of the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Name: c.Name}
}

// GenerateToken signs an HS256 token for id that expires validityDuration
// from now. A negative duration yields an already expired token.
func GenerateToken(id Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: id.UserID,
		Email:  id.Email,
		Name:   id.Name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken verifies tokenString with secretKey and returns its claims.
//
// Failures are classified as common.ErrMalformedToken (not a token, bad
// claims, missing identity), common.ErrInvalidSignature (MAC mismatch or an
// algorithm other than HS256) and common.ErrTokenExpired (now >= exp).
// Anything else is returned wrapped.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	if !token.Valid {
		return nil, common.ErrMalformedToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: no user id", common.ErrMalformedToken)
	}

	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", common.ErrMalformedToken, err)
	default:
		return fmt.Errorf("parse token: %w", err)
	}
}

// TokenManager binds the signing secret and token lifetime from config.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for id with the configured lifetime.
func (m *TokenManager) Issue(id Identity) (string, error) {
	return GenerateToken(id, m.secret, m.ttl)
}

// Verify parses and validates a token signed with the configured secret.
func (m *TokenManager) Verify(token string) (*Claims, error) {
	return ParseToken(token, m.secret)
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
