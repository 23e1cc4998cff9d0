package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tunedb/tunedb/internal/iodb"
	"github.com/tunedb/tunedb/internal/ioload"
	"github.com/tunedb/tunedb/internal/iostore"
	pkgconfig "github.com/tunedb/tunedb/pkg/config"
	"github.com/tunedb/tunedb/pkg/db"
	"github.com/tunedb/tunedb/pkg/lifecycle"
)

var (
	manifestPath string
	snapshotPath string
)

func getLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Reset the catalog and load it from a manifest or snapshot",
		Long: `Reset the catalog and load it from a YAML manifest or a SQLite
snapshot.

All existing catalog rows are removed first, then albums with their
tracks, singles, listeners and ratings are inserted in order. Entries
that violate catalog constraints (duplicate albums, unknown listeners,
out of range ratings) are skipped and reported at the end.

Exactly one source must be given, either --manifest or --snapshot.

Examples:
  tunedb load --manifest catalog.yaml
  tunedb load --snapshot catalog.db`,
		RunE: runLoad,
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "",
		"path to a YAML catalog manifest")
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "",
		"path to a SQLite catalog snapshot")
	cmd.MarkFlagsMutuallyExclusive("manifest", "snapshot")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	src, err := loadSource(cfg)
	if err != nil {
		return err
	}

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	exists, err := op.TableExists(ctx, "songs")
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("catalog schema not found, run 'tunedb create' first")
	}

	store := iostore.New(op.Pool())
	loader := ioload.New(store, src)

	report, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	printLoadReport(src.Name(), report)
	return nil
}

// loadSource picks the manifest or snapshot source, preferring flags
// over config file settings.
func loadSource(cfg *pkgconfig.Config) (ioload.Source, error) {
	manifest := manifestPath
	if manifest == "" {
		manifest = cfg.Load.ManifestPath
	}
	snapshot := snapshotPath
	if snapshot == "" && manifest == "" {
		snapshot = cfg.Load.SnapshotPath
	}

	switch {
	case snapshotPath != "":
		return ioload.NewSQLiteSource(snapshotPath), nil
	case manifest != "":
		return ioload.NewYAMLSource(manifest), nil
	case snapshot != "":
		return ioload.NewSQLiteSource(snapshot), nil
	default:
		return nil, fmt.Errorf("no source given, use --manifest or --snapshot")
	}
}

func printLoadReport(source string, report *lifecycle.LoadReport) {
	fmt.Printf("\nLoaded catalog from %s (batch %s):\n", source, report.BatchID)
	fmt.Printf("  albums:    %s\n", humanize.Comma(int64(report.Albums)))
	fmt.Printf("  songs:     %s\n", humanize.Comma(int64(report.Songs)))
	fmt.Printf("  singles:   %s\n", humanize.Comma(int64(report.Singles)))
	fmt.Printf("  listeners: %s\n", humanize.Comma(int64(report.Listeners)))
	fmt.Printf("  ratings:   %s\n", humanize.Comma(int64(report.Ratings)))

	if !report.Rejected() {
		return
	}

	fmt.Printf("\nRejected %d entries:\n", len(report.Rejects))
	for _, r := range report.Rejects {
		fmt.Printf("  [%s] %s: %s\n", r.Phase, r.Key, r.Reason)
	}
}
