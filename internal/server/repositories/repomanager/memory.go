package repomanager

import (
	"context"
	"sync/atomic"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager backs the server with process memory. Data is lost
// on exit.
type MemoryRepositoryManager struct {
	users  *users.MemoryRepository
	closed atomic.Bool
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Migrate(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error {
	if m.closed.Load() {
		return common.ErrStoreUnavailable
	}
	return ctx.Err()
}

func (m *MemoryRepositoryManager) Close(ctx context.Context) error {
	m.closed.Store(true)
	return nil
}
