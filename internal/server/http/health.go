package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers the liveness probe on GET /.
func Health(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"message":     msgServiceHealthy,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": env,
		})
	}
}

// Readiness reports 503 while the store cannot be reached.
func Readiness(store Pinger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, Envelope{Status: statusError, Message: msgStoreUnreachable})
			return
		}
		c.JSON(http.StatusOK, Envelope{Status: statusSuccess, Message: msgStoreReachable})
	}
}
