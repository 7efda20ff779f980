package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listTablesSQL = `SELECT table_name FROM information_schema.tables
	WHERE table_schema = 'public' ORDER BY table_name`

// Diagnostics reports connectivity details for the postgres driver.
type Diagnostics struct {
	pool *pgxpool.Pool
}

// NewDiagnostics returns Diagnostics backed by the given pool.
func NewDiagnostics(pool *pgxpool.Pool) *Diagnostics {
	return &Diagnostics{pool: pool}
}

// Driver returns the driver name.
func (d *Diagnostics) Driver() string { return "postgres" }

// Ping verifies database connectivity.
func (d *Diagnostics) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Collections lists the public tables.
func (d *Diagnostics) Collections(ctx context.Context) ([]string, error) {
	rows, err := d.pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var name string
		err := row.Scan(&name)
		return name, err
	})
}
