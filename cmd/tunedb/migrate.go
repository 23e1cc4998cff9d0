package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunedb/tunedb/internal/iodb"
	"github.com/tunedb/tunedb/internal/ioschema"
	"github.com/tunedb/tunedb/pkg/db"
)

func getMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations",
		Long: `Update the catalog schema to the latest model definitions.

Reporting materialized views are dropped first so ALTER TABLE is not
blocked by dependents; run 'tunedb optimize' afterwards to rebuild
them.

Examples:
  tunedb migrate
  tunedb migrate --config custom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := getConfig()

			var op db.Operator = iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer op.Close()

			if err := op.DropMaterializedViews(ctx); err != nil {
				return fmt.Errorf("failed to drop views: %w", err)
			}

			manager := ioschema.NewManager(op)
			if err := manager.Migrate(ctx, cfg); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}

			fmt.Println("Schema migrated. Run 'tunedb optimize' to rebuild views.")
			return nil
		},
	}

	return cmd
}
