// Package main provides the tunedb CLI application. tunedb manages
// the lifecycle of a PostgreSQL music catalog: schema creation,
// loading from manifests or snapshots, optimization and reporting.
package main

import (
	"os"
)

var (
	// Version is set by build flags.
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
