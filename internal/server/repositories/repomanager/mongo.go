package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// DefaultDatabase is used when the URI carries no database path.
const DefaultDatabase = "auth-db"

// MongoRepositoryManager owns a MongoDB client and the database named in
// the connection URI.
type MongoRepositoryManager struct {
	client *mongo.Client
	users  *users.MongoRepository
}

// DatabaseName extracts the database from uri, falling back to
// DefaultDatabase.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongodb uri: %w", err)
	}
	if cs.Database == "" {
		return DefaultDatabase, nil
	}
	return cs.Database, nil
}

// NewMongoRepositoryManager connects and pings the server before returning.
func NewMongoRepositoryManager(ctx context.Context, uri string, timeout time.Duration) (*MongoRepositoryManager, error) {
	dbName, err := DatabaseName(uri)
	if err != nil {
		return nil, err
	}

	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetTimeout(timeout).SetServerSelectionTimeout(timeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", common.ErrStoreUnavailable, err)
	}

	m := &MongoRepositoryManager{
		client: client,
		users:  users.NewMongoRepository(client.Database(dbName)),
	}

	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return m, nil
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Migrate(ctx context.Context) error {
	return m.users.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping: %w", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
