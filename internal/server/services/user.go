// Package services contains server-side business logic. UserService
// implements account registration, password login, profile lookup and the
// administrative activation switch.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and checks passwords. *auth.Hasher satisfies it.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, digest string) (bool, error)
}

// TokenIssuer mints bearer tokens. *auth.TokenManager satisfies it.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	User  *models.PublicUser `json:"user"`
	Token string             `json:"token"`
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	now         func() time.Time
}

// Option customizes a UserService.
type Option func(*UserService)

// WithClock replaces time.Now, used for last-login stamps.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

func NewUserService(m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) *UserService {
	s := &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an active account and returns it with a fresh token.
// An existing email yields common.ErrDuplicateAccount.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	repo := s.repomanager.Users()

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateAccount
	case !errors.Is(err, common.ErrorNotFound):
		return nil, storeError("lookup user", err)
	}

	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateAccount
		}
		return nil, storeError("create user", err)
	}

	return s.authResult(user)
}

// Login checks the credentials, records the login time and returns a token.
// Unknown email and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users()

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, storeError("lookup user", err)
	}

	if !user.IsActive {
		return nil, common.ErrAccountDeactivated
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	user.LastLoginAt = &now
	if err := repo.Update(ctx, user); err != nil {
		return nil, storeError("update last login", err)
	}

	return s.authResult(user)
}

// GetByID returns the public view of a user or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError("lookup user", err)
	}
	return user.Public(), nil
}

// SetActive flips the activation flag of the account with the given email.
// Tokens already issued stay valid until they expire.
func (s *UserService) SetActive(ctx context.Context, email string, active bool) (*models.PublicUser, error) {
	repo := s.repomanager.Users()

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError("lookup user", err)
	}

	if user.IsActive != active {
		user.IsActive = active
		if err := repo.Update(ctx, user); err != nil {
			return nil, storeError("update user", err)
		}
	}

	return user.Public(), nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// storeError makes sure a repository failure carries ErrStoreUnavailable.
func storeError(op string, err error) error {
	if errors.Is(err, common.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrStoreUnavailable, err)
}
