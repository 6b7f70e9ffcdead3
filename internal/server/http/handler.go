package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	GetByID(ctx context.Context, id string) (*models.PublicUser, error)
}

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	users   UserService
	metrics *Metrics
	debug   bool
}

func NewAuthHandler(users UserService, metrics *Metrics, debug bool) *AuthHandler {
	return &AuthHandler{users: users, metrics: metrics, debug: debug}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if fields := bindRequest(c, &req); fields != nil {
		h.metrics.RecordAuth("register", "invalid_request")
		respondValidation(c, fields)
		return
	}

	res, err := h.users.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	h.metrics.RecordAuth("register", outcomeOf(err))
	if err != nil {
		respondError(c, err, msgRegisterFailed, h.debug)
		return
	}

	respond(c, http.StatusCreated, msgRegistered, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if fields := bindRequest(c, &req); fields != nil {
		h.metrics.RecordAuth("login", "invalid_request")
		respondValidation(c, fields)
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	h.metrics.RecordAuth("login", outcomeOf(err))
	if err != nil {
		respondError(c, err, msgLoginFailed, h.debug)
		return
	}

	respond(c, http.StatusOK, msgLoggedIn, res)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		respondError(c, common.ErrMissingToken, msgProfileFailed, h.debug)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err, msgProfileFailed, h.debug)
		return
	}

	respond(c, http.StatusOK, msgProfile, gin.H{"user": user})
}

// Logout only acknowledges: tokens are stateless and the client discards
// its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	respond(c, http.StatusOK, msgLoggedOut, nil)
}

// outcomeOf labels an auth result for metrics.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrDuplicateAccount):
		return "duplicate"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrAccountDeactivated):
		return "deactivated"
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrInvalidToken):
		return "invalid"
	default:
		return "error"
	}
}
