// Package lifecycle defines the contracts for the phases of the
// catalog database lifecycle: schema management, loading and
// optimization. Implementations live under internal/io*.
package lifecycle

import (
	"context"

	"github.com/tunedb/tunedb/pkg/config"
)

// SchemaManager defines database schema management. It uses GORM
// AutoMigrate to handle both initial creation and migrations; both
// operations are idempotent.
type SchemaManager interface {
	// Create creates the initial database schema.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the schema to the latest model definitions.
	Migrate(ctx context.Context, cfg *config.Config) error
}

// Loader resets the catalog and fills it from an external source.
// Rows that violate loading rules are rejected and reported, not
// fatal; the load continues past them.
type Loader interface {
	// Load performs a full reset-and-reload and returns the report of
	// what was loaded and what was rejected.
	Load(ctx context.Context) (*LoadReport, error)
}

// Optimizer prepares a freshly loaded database for reporting.
type Optimizer interface {
	// Optimize creates reporting materialized views and runs
	// VACUUM ANALYZE over the catalog tables.
	Optimize(ctx context.Context) error
}

// LoadReport summarizes one load run.
type LoadReport struct {
	// BatchID identifies the load run in logs.
	BatchID string

	// Loaded counts inserted rows per phase.
	Albums    int
	Songs     int
	Singles   int
	Listeners int
	Ratings   int

	// Rejects collects rows that were skipped, with the rule that
	// rejected them.
	Rejects []Reject
}

// Reject describes one skipped source row.
type Reject struct {
	// Phase is the load phase: "album", "single", "listener" or
	// "rating".
	Phase string

	// Key is the natural key of the rejected row, such as
	// "artist/title" or a username.
	Key string

	// Reason is a short human-readable explanation.
	Reason string
}

// Rejected reports whether the load skipped any rows.
func (r *LoadReport) Rejected() bool {
	return len(r.Rejects) > 0
}
