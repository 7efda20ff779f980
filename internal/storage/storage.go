// Package storage selects and opens the backing document store. Two drivers
// are supported: postgres (documents with JSONB line items) and mongo (the
// native document store). Both expose the same repository interfaces, so the
// rest of the application never knows which driver is active.
package storage

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/customer-orders-api/internal/domain/customer"
	"github.com/xenking/customer-orders-api/internal/domain/order"
	"github.com/xenking/customer-orders-api/internal/storage/mongo"
	"github.com/xenking/customer-orders-api/internal/storage/postgres"
)

// Config selects and configures the storage driver.
type Config struct {
	Driver        string `default:"postgres" usage:"Storage driver: postgres or mongo"`
	DatabaseURL   string `usage:"PostgreSQL connection URL (ORDERS_STORAGE_DATABASEURL or DATABASE_URL)" flag:"database-url"`
	MongoURL      string `usage:"MongoDB connection URL (ORDERS_STORAGE_MONGOURL or MONGO_URL)" flag:"mongo-url"`
	MongoDatabase string `default:"orders" usage:"MongoDB database name" flag:"mongo-database"`
}

// Diagnostics reports connectivity details about the active store. It backs
// the /test endpoint and the readiness probe.
type Diagnostics interface {
	// Driver returns the active driver name.
	Driver() string
	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
	// Collections lists the store's collection or table names.
	Collections(ctx context.Context) ([]string, error)
}

// Store bundles the repositories and diagnostics of an open storage driver.
type Store struct {
	Customers customer.Repository
	Orders    order.Repository
	Diag      Diagnostics

	closeFn func()
}

// Close releases the underlying connections.
func (s *Store) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Open connects to the store selected by cfg.Driver and runs any pending
// migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch cfg.Driver {
	case "postgres":
		return openPostgres(ctx, cfg)
	case "mongo":
		return openMongo(ctx, cfg)
	default:
		return nil, errors.Errorf("unsupported storage driver %q (supported: postgres, mongo)", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set ORDERS_STORAGE_DATABASEURL or DATABASE_URL")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	return &Store{
		Customers: postgres.NewCustomerRepository(pool),
		Orders:    postgres.NewOrderRepository(pool),
		Diag:      postgres.NewDiagnostics(pool),
		closeFn:   pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.MongoURL == "" {
		return nil, errors.New("mongo URL is required: set ORDERS_STORAGE_MONGOURL or MONGO_URL")
	}

	client, err := mongo.Connect(ctx, cfg.MongoURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}

	db := client.Database(cfg.MongoDatabase)
	return &Store{
		Customers: mongo.NewCustomerRepository(db),
		Orders:    mongo.NewOrderRepository(db),
		Diag:      mongo.NewDiagnostics(db),
		closeFn: func() {
			_ = client.Disconnect(context.Background())
		},
	}, nil
}
