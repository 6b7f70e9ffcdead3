package users

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Contract(t *testing.T) {
	runRepositoryContract(t, NewMemoryRepository())
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Email: "a@x.com", Name: "A", IsActive: true})
	require.NoError(t, err)

	u.Name = "changed"
	got, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	got.IsActive = false
	again, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, again.IsActive)
}

func TestMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	const n = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.User{Email: "race@x.com", Name: "R"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, common.ErrorAlreadyExists) {
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dups)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepository_CanceledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.GetUserByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)
}
