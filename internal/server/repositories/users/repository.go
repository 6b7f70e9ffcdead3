// Package users persists user accounts.
//
// Two implementations are provided: MongoRepository, the production store,
// and MemoryRepository, used for local runs and tests. Both report a missing
// record as common.ErrorNotFound and a second account with the same email as
// common.ErrorAlreadyExists. Any other persistence failure wraps
// common.ErrStoreUnavailable.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	// Create stores a new user and returns it with ID and timestamps set.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// Update overwrites the mutable fields of an existing user.
	Update(ctx context.Context, user *models.User) error
}
