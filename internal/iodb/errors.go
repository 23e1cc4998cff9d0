package iodb

import (
	"errors"
	"fmt"

	"github.com/tunedb/tunedb/pkg/config"
)

// errNotConnected reports an operation attempted before Connect.
var errNotConnected = errors.New("not connected to database")

func connectionError(cfg *config.DatabaseConfig, cause error) error {
	return fmt.Errorf("failed to connect to %s:%d/%s as %s: %w",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cause)
}
