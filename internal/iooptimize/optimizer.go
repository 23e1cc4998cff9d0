// Package iooptimize implements the lifecycle.Optimizer contract: it
// prepares a freshly loaded catalog for reporting by rebuilding the
// materialized views and refreshing planner statistics.
package iooptimize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tunedb/tunedb/pkg/db"
	"github.com/tunedb/tunedb/pkg/lifecycle"
	"github.com/tunedb/tunedb/pkg/schema"
)

// optimizer implements lifecycle.Optimizer.
type optimizer struct {
	operator db.Operator
}

// New creates a new Optimizer.
func New(op db.Operator) lifecycle.Optimizer {
	return &optimizer{operator: op}
}

// Optimize drops and recreates the reporting materialized views, then
// runs VACUUM ANALYZE over the catalog tables.
func (o *optimizer) Optimize(ctx context.Context) error {
	pool := o.operator.Pool()
	if pool == nil {
		return fmt.Errorf("not connected to database")
	}

	startTime := time.Now()
	slog.Info("Starting catalog optimization")

	if err := o.operator.DropMaterializedViews(ctx); err != nil {
		return err
	}
	if err := o.operator.CreateMaterializedViews(ctx); err != nil {
		return err
	}
	slog.Info("Rebuilt reporting views")

	for _, table := range schema.TableNames() {
		vacuumSQL := fmt.Sprintf("VACUUM ANALYZE %s", table)
		if _, err := pool.Exec(ctx, vacuumSQL); err != nil {
			return fmt.Errorf("failed to vacuum %s: %w", table, err)
		}
	}
	slog.Info("Vacuumed catalog tables",
		"tables", len(schema.TableNames()),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)

	return nil
}
