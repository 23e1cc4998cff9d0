// Package config provides configuration management for tunedb.
//
// This package has no I/O dependencies; loading from files, flags and
// environment happens in internal/ioconfig.
//
// Precedence (highest to lowest): CLI flags > env vars > tunedb.yaml >
// defaults. Environment variables use the TUNEDB_ prefix with
// underscores for nesting (database.host -> TUNEDB_DATABASE_HOST).
package config

import "runtime"

// Config represents the complete tunedb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Load contains settings specific to the load command.
	Load LoadConfig `mapstructure:"load" yaml:"load"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations such as running all reports at once.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full".
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LoadConfig contains settings specific to the load command. Both
// fields are runtime-only and come from CLI flags.
type LoadConfig struct {
	// ManifestPath points to the YAML catalog manifest.
	ManifestPath string `mapstructure:"manifest" yaml:"manifest"`

	// SnapshotPath points to a SQLite catalog snapshot. Mutually
	// exclusive with ManifestPath; the CLI validates this.
	SnapshotPath string `mapstructure:"snapshot" yaml:"snapshot"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging: 'error', 'warn', 'info' or 'debug'.
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with sensible default values. The returned
// config is always valid; Option functions are the only way to modify
// it.
func New(opts ...Option) *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "tunedb",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		JobsNumber: runtime.NumCPU(),
	}
	res.Update(opts...)

	return res
}

// Update applies options to the config. Invalid options are rejected
// with a warning and the config stays in a valid state.
func (c *Config) Update(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
