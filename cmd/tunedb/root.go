package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tunedb/tunedb/internal/ioconfig"
	pkgconfig "github.com/tunedb/tunedb/pkg/config"
	"github.com/tunedb/tunedb/pkg/logger"
)

var (
	cfgFile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tunedb",
		Short: "tunedb manages the music catalog database lifecycle",
		Long: `tunedb is a CLI tool for managing the lifecycle of a PostgreSQL music
catalog database, from schema creation through data loading to reporting.

The tool provides five phases:
  - create:   create the database schema
  - migrate:  apply schema migrations
  - load:     reset the catalog and load it from a manifest or snapshot
  - optimize: rebuild reporting views and refresh statistics
  - report:   run the analytical queries

Configuration precedence (highest to lowest):
  1. CLI flags (--host, --port, etc.)
  2. Environment variables (TUNEDB_*)
  3. Config file (tunedb.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host -> TUNEDB_DATABASE_HOST).

  Examples:
    TUNEDB_DATABASE_HOST        PostgreSQL host
    TUNEDB_DATABASE_PORT        PostgreSQL port
    TUNEDB_DATABASE_USER        PostgreSQL user
    TUNEDB_DATABASE_PASSWORD    PostgreSQL password
    TUNEDB_DATABASE_DATABASE    Database name
    TUNEDB_LOG_LEVEL            Log level (debug/info/warn/error)`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Auto-generate the config file on first run.
			if cfgFile == "" {
				exists, err := ioconfig.ConfigFileExists()
				if err != nil {
					return fmt.Errorf("failed to check config file: %w", err)
				}
				if !exists {
					path, err := ioconfig.GenerateDefaultConfig()
					if err != nil {
						// Defaults still work without a file.
						fmt.Printf("Warning: could not generate config file: %v\n", err)
					} else {
						fmt.Printf("Generated default config at: %s\n", path)
					}
				}
			}

			result, err := ioconfig.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result

			if err := ioconfig.BindFlags(cmd, cfg); err != nil {
				return err
			}

			slog.SetDefault(logger.New(&cfg.Log, os.Stderr))

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./tunedb.yaml or ~/.config/tunedb/tunedb.yaml)")
	rootCmd.PersistentFlags().String("host", "", "PostgreSQL host")
	rootCmd.PersistentFlags().Int("port", 0, "PostgreSQL port")
	rootCmd.PersistentFlags().String("user", "", "PostgreSQL user")
	rootCmd.PersistentFlags().String("password", "", "PostgreSQL password")
	rootCmd.PersistentFlags().String("database", "", "database name")
	rootCmd.PersistentFlags().String("ssl-mode", "", "PostgreSQL SSL mode")

	rootCmd.Flags().BoolP("version", "V", false, "version for tunedb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getLoadCmd())
	rootCmd.AddCommand(getOptimizeCmd())
	rootCmd.AddCommand(getReportCmd())

	return rootCmd
}

// getConfig returns the loaded configuration for use in subcommands.
func getConfig() *pkgconfig.Config {
	return cfg
}
