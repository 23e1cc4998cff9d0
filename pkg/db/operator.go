// Package db defines the low-level database management contract.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tunedb/tunedb/pkg/config"
)

// Operator defines basic database management operations. It owns the
// connection lifecycle and exposes the pgxpool.Pool so higher-level
// components (schema manager, store, analytics, loader) can run their
// specialized SQL directly, including transactions and bulk inserts.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. It is nil before
	// Connect succeeds.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public
	// schema. Used to decide whether schema creation should prompt.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema. Used when
	// recreating the schema from scratch.
	DropAllTables(ctx context.Context) error

	// DropMaterializedViews drops all reporting materialized views.
	// Run before reloads so truncation is not blocked by dependents.
	DropMaterializedViews(ctx context.Context) error

	// CreateMaterializedViews creates the reporting materialized
	// views. Run by the optimize phase after a load.
	CreateMaterializedViews(ctx context.Context) error
}
