package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunedb/tunedb/internal/iodb"
	"github.com/tunedb/tunedb/internal/iooptimize"
	"github.com/tunedb/tunedb/pkg/db"
)

func getOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Rebuild reporting views and refresh table statistics",
		Long: `Prepare the catalog for reporting.

This command rebuilds the materialized views used by reports and runs
VACUUM ANALYZE on every catalog table, so the planner has fresh
statistics after a bulk load.

Examples:
  tunedb optimize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			var op db.Operator = iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			opt := iooptimize.New(op)
			if err := opt.Optimize(ctx); err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}

			fmt.Println("Catalog optimized.")
			return nil
		},
	}

	return cmd
}
