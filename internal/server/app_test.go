package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env, uri string) *config.Config {
	return &config.Config{
		Env:             env,
		Host:            "127.0.0.1",
		Port:            0,
		MongoURI:        uri,
		MongoTimeout:    timex.Duration(time.Second),
		JWTSecret:       "secret",
		JWTExpiresIn:    timex.Duration(time.Hour),
		BcryptRounds:    4,
		HashConcurrency: 1,
		ShutdownTimeout: timex.Duration(time.Second),
	}
}

func TestNewApp_MemoryStoreRunAndStop(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(common.EnvTest, "memory://"), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-app.server.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + app.server.Addr().String() + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	assert.ErrorIs(t, app.store.Ping(context.Background()), common.ErrStoreUnavailable)
}

func TestNewApp_StoreFailure(t *testing.T) {
	orig := openStore
	t.Cleanup(func() { openStore = orig })
	openStore = func(context.Context, string, time.Duration) (repomanager.RepositoryManager, error) {
		return nil, common.ErrStoreUnavailable
	}

	t.Run("fatal outside test env", func(t *testing.T) {
		_, err := NewApp(context.Background(), testConfig(common.EnvProduction, "mongodb://db/auth"), logging.Nop{})
		assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	})

	t.Run("memory fallback in test env", func(t *testing.T) {
		app, err := NewApp(context.Background(), testConfig(common.EnvTest, "mongodb://db/auth"), logging.Nop{})
		require.NoError(t, err)
		assert.IsType(t, &repomanager.MemoryRepositoryManager{}, app.store)
	})
}

type failingMigrate struct {
	*repomanager.MemoryRepositoryManager
	closed bool
}

func (f *failingMigrate) Migrate(context.Context) error { return errors.New("index build failed") }

func (f *failingMigrate) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

func TestNewApp_MigrateFailureClosesStore(t *testing.T) {
	store := &failingMigrate{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}

	orig := openStore
	t.Cleanup(func() { openStore = orig })
	openStore = func(context.Context, string, time.Duration) (repomanager.RepositoryManager, error) {
		return store, nil
	}

	_, err := NewApp(context.Background(), testConfig(common.EnvDevelopment, "memory://"), logging.Nop{})
	assert.Error(t, err)
	assert.True(t, store.closed)
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, "release", ginMode(common.EnvProduction))
	assert.Equal(t, "test", ginMode(common.EnvTest))
	assert.Equal(t, "debug", ginMode(common.EnvDevelopment))
}
