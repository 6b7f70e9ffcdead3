// Package repomanager opens the configured user store and vends its
// repositories. The backend is chosen by the scheme of the store URI:
// mongodb:// and mongodb+srv:// select MongoDB, memory:// an in-process store.
package repomanager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// MemoryScheme selects the in-process store.
const MemoryScheme = "memory://"

type RepositoryManager interface {
	Users() users.Repository
	// Migrate prepares the store schema (indexes).
	Migrate(ctx context.Context) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the store addressed by uri.
func Open(ctx context.Context, uri string, timeout time.Duration) (RepositoryManager, error) {
	switch {
	case strings.HasPrefix(uri, MemoryScheme):
		return NewMemoryRepositoryManager(), nil
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		m, err := NewMongoRepositoryManager(ctx, uri, timeout)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported store uri scheme: %q", uri)
	}
}
