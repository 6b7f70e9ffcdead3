package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract checks the behaviour every Repository must share.
func runRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		u, err := repo.Create(ctx, &models.User{Email: "alice@example.com", PasswordHash: "h", Name: "Alice", IsActive: true})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.False(t, u.CreatedAt.IsZero())
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.User{Email: "dup@example.com", PasswordHash: "h", Name: "One", IsActive: true})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &models.User{Email: "dup@example.com", PasswordHash: "h2", Name: "Two", IsActive: true})
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		created, err := repo.Create(ctx, &models.User{Email: "bob@example.com", PasswordHash: "hash-b", Name: "Bob", IsActive: true})
		require.NoError(t, err)

		byEmail, err := repo.GetUserByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
		assert.Equal(t, "hash-b", byEmail.PasswordHash)
		assert.True(t, byEmail.IsActive)
		assert.Nil(t, byEmail.LastLoginAt)

		byID, err := repo.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", byID.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.GetUserByID(ctx, "0123456789abcdef01234567")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.GetUserByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("update", func(t *testing.T) {
		created, err := repo.Create(ctx, &models.User{Email: "carol@example.com", PasswordHash: "h", Name: "Carol", IsActive: true})
		require.NoError(t, err)

		login := time.Now().UTC().Truncate(time.Millisecond)
		created.LastLoginAt = &login
		created.IsActive = false
		require.NoError(t, repo.Update(ctx, created))

		got, err := repo.GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
		require.NotNil(t, got.LastLoginAt)
		assert.True(t, login.Equal(*got.LastLoginAt))
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
		assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
		assert.Equal(t, created.UpdatedAt, created.UpdatedAt.Truncate(time.Millisecond))
	})

	t.Run("update missing", func(t *testing.T) {
		err := repo.Update(ctx, &models.User{ID: "0123456789abcdef01234567", Email: "ghost@example.com"})
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}
