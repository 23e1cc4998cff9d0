// Package iotesting provides shared helpers for integration tests.
package iotesting

import (
	"github.com/tunedb/tunedb/internal/ioconfig"
	"github.com/tunedb/tunedb/pkg/config"
)

// TestDatabaseName is the database name used for all integration
// tests, so tests never run against a production catalog.
const TestDatabaseName = "tunedb_test"

// GetTestConfig returns a configuration for integration tests: the
// standard config (file and TUNEDB_* environment overrides included)
// with the database name forced to the test database.
func GetTestConfig() *config.Config {
	cfg, err := ioconfig.Load("")
	if err != nil {
		cfg = config.New()
	}
	cfg.Database.Database = TestDatabaseName
	return cfg
}
