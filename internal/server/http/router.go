// Package http is the REST transport of the auth server: the gin router,
// request binding, the auth gate and the response envelope.
package http

import (
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the settings the router needs from the server config.
type RouterConfig struct {
	Env          string
	CORSOrigins  []string
	ReadyTimeout time.Duration
}

// Deps are the collaborators the routes call into.
type Deps struct {
	Users   UserService
	Tokens  TokenVerifier
	Store   Pinger
	Metrics *Metrics
	Logger  logging.Logger
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig, deps Deps) *gin.Engine {
	debugMode := cfg.Env == common.EnvDevelopment
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop{}
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 2 * time.Second
	}

	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(deps.Logger),
		Recovery(deps.Logger, debugMode),
		deps.Metrics.Middleware(),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Envelope{Status: statusError, Message: "Route not found"})
	})

	r.GET("/", Health(cfg.Env))
	r.GET("/readyz", Readiness(deps.Store, cfg.ReadyTimeout))
	r.GET("/metrics", deps.Metrics.Handler())

	h := NewAuthHandler(deps.Users, deps.Metrics, debugMode)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)

	protected := authGroup.Group("", RequireAuth(deps.Tokens, deps.Metrics, debugMode))
	protected.GET("/profile", h.Profile)
	protected.POST("/logout", h.Logout)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", common.AuthorizationHeaderName, common.RequestIDHeaderName},
		ExposeHeaders: []string{common.RequestIDHeaderName},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
