package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	claimsKey    = "auth_claims"
)

// TokenVerifier checks bearer tokens. *auth.TokenManager satisfies it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequestID propagates or generates the X-Request-Id header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

// AccessLog logs every request at a level chosen by its status.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"client", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Error())
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error(ctx, "Request completed", args...)
		case status >= http.StatusBadRequest:
			logger.Warn(ctx, "Request completed", args...)
		default:
			logger.Debug(ctx, "Request completed", args...)
		}
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery(logger logging.Logger, debugMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request.Context(), "Panic recovered",
					"error", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				body := Envelope{Status: statusError, Message: msgInternal}
				if debugMode {
					body.Error = fmt.Sprintf("%v", r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, body)
			}
		}()
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. Both
// "Bearer <token>" and a bare token are accepted.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == common.BearerScheme {
		return ""
	}
	if rest, ok := strings.CutPrefix(header, common.BearerScheme+" "); ok {
		return strings.TrimSpace(rest)
	}
	return header
}

// RequireAuth rejects requests without a valid token. On success the claims
// are available through auth.ClaimsFromContext on the request context.
func RequireAuth(verifier TokenVerifier, metrics *Metrics, debugMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if token == "" {
			metrics.RecordAuth("verify", "missing")
			respondError(c, common.ErrMissingToken, msgVerifyFailed, debugMode)
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			metrics.RecordAuth("verify", outcomeOf(err))
			respondError(c, err, msgVerifyFailed, debugMode)
			return
		}

		metrics.RecordAuth("verify", "ok")
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Set(claimsKey, claims)
		c.Next()
	}
}
