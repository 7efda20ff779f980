// Package mongo implements the domain repositories on MongoDB. Identity is
// the native ObjectID, rendered as a hex string at the repository boundary so
// domain logic only ever sees opaque string ids.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a client for the given URL and verifies connectivity.
func Connect(ctx context.Context, url string) (*driver.Client, error) {
	client, err := driver.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

// Diagnostics reports connectivity details for the mongo driver.
type Diagnostics struct {
	db *driver.Database
}

// NewDiagnostics returns Diagnostics backed by the given database.
func NewDiagnostics(db *driver.Database) *Diagnostics {
	return &Diagnostics{db: db}
}

// Driver returns the driver name.
func (d *Diagnostics) Driver() string { return "mongo" }

// Ping verifies database connectivity.
func (d *Diagnostics) Ping(ctx context.Context) error {
	return d.db.Client().Ping(ctx, readpref.Primary())
}

// Collections lists the database's collection names.
func (d *Diagnostics) Collections(ctx context.Context) ([]string, error) {
	names, err := d.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return names, nil
}
