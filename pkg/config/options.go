package config

import (
	"log/slog"
	"slices"
	"strings"
)

// Option is a function that modifies a Config. Options validate their
// inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("database host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("database port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("database user", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	return func(c *Config) {
		if isValidString("database password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("database name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	modes := []string{"disable", "require", "verify-ca", "verify-full"}
	return func(c *Config) {
		if slices.Contains(modes, s) {
			c.Database.SSLMode = s
		} else {
			slog.Warn("Ignoring invalid option value",
				"option", "database ssl_mode", "value", s)
		}
	}
}

// OptLoadManifestPath sets the YAML manifest path for the load
// command. Runtime-only field.
func OptLoadManifestPath(s string) Option {
	return func(c *Config) {
		c.Load.ManifestPath = strings.TrimSpace(s)
	}
}

// OptLoadSnapshotPath sets the SQLite snapshot path for the load
// command. Runtime-only field.
func OptLoadSnapshotPath(s string) Option {
	return func(c *Config) {
		c.Load.SnapshotPath = strings.TrimSpace(s)
	}
}

// OptLogLevel sets the logging level.
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	levels := []string{"debug", "info", "warn", "error"}
	return func(c *Config) {
		if slices.Contains(levels, s) {
			c.Log.Level = s
		} else {
			slog.Warn("Ignoring invalid option value",
				"option", "log level", "value", s)
		}
	}
}

// OptLogFormat sets the logging format.
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if s == "json" || s == "text" {
			c.Log.Format = s
		} else {
			slog.Warn("Ignoring invalid option value",
				"option", "log format", "value", s)
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("jobs number", i) {
			c.JobsNumber = i
		}
	}
}

func isValidString(name, s string) bool {
	if s == "" {
		slog.Warn("Ignoring empty option value", "option", name)
		return false
	}
	return true
}

func isValidInt(name string, i int) bool {
	if i <= 0 {
		slog.Warn("Ignoring non-positive option value",
			"option", name, "value", i)
		return false
	}
	return true
}
