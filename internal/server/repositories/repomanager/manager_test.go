package repomanager

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()

	m, err := Open(ctx, "memory://", time.Second)
	require.NoError(t, err)
	require.IsType(t, &MemoryRepositoryManager{}, m)

	assert.NotNil(t, m.Users())
	assert.NoError(t, m.Migrate(ctx))
	assert.NoError(t, m.Ping(ctx))

	require.NoError(t, m.Close(ctx))
	assert.ErrorIs(t, m.Ping(ctx), common.ErrStoreUnavailable)
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), "postgres://localhost/db", time.Second)
	assert.Error(t, err)
}

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "explicit", uri: "mongodb://localhost:27017/auth-db", want: "auth-db"},
		{name: "other db with options", uri: "mongodb://user:pw@db1,db2/users?replicaSet=rs0", want: "users"},
		{name: "no path", uri: "mongodb://localhost:27017", want: DefaultDatabase},
		{name: "garbage", uri: "mongodb://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DatabaseName(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_MongoUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for server selection timeout")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, "mongodb://127.0.0.1:1/auth-db", 300*time.Millisecond)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}
