// Package ioconfig provides I/O operations for loading configuration
// from files, environment variables and CLI flags. This is an impure
// package; the config structs themselves live in pkg/config.
package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tunedb/tunedb/pkg/config"
)

// envPrefix is the prefix of tunedb environment variables, such as
// TUNEDB_DATABASE_HOST.
const envPrefix = "TUNEDB"

// Load reads configuration from a YAML file, applying TUNEDB_*
// environment overrides. If configPath is empty, default locations
// are searched:
//   - ./tunedb.yaml
//   - ~/.config/tunedb/tunedb.yaml
//
// A missing file falls back to defaults; a malformed file is an
// error.
func Load(configPath string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tunedb")
		v.AddConfigPath(".")
		if dir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, ".config", "tunedb"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configPath != "" {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := config.New()
	cfg.Update(optionsFromViper(v)...)

	return cfg, nil
}

// optionsFromViper converts set viper keys into config options, so
// every value still passes option validation.
func optionsFromViper(v *viper.Viper) []config.Option {
	var opts []config.Option

	if v.IsSet("database.host") {
		opts = append(opts, config.OptDatabaseHost(v.GetString("database.host")))
	}
	if v.IsSet("database.port") {
		opts = append(opts, config.OptDatabasePort(v.GetInt("database.port")))
	}
	if v.IsSet("database.user") {
		opts = append(opts, config.OptDatabaseUser(v.GetString("database.user")))
	}
	if v.IsSet("database.password") {
		opts = append(opts, config.OptDatabasePassword(v.GetString("database.password")))
	}
	if v.IsSet("database.database") {
		opts = append(opts, config.OptDatabaseDatabase(v.GetString("database.database")))
	}
	if v.IsSet("database.ssl_mode") {
		opts = append(opts, config.OptDatabaseSSLMode(v.GetString("database.ssl_mode")))
	}
	if v.IsSet("log.level") {
		opts = append(opts, config.OptLogLevel(v.GetString("log.level")))
	}
	if v.IsSet("log.format") {
		opts = append(opts, config.OptLogFormat(v.GetString("log.format")))
	}
	if v.IsSet("jobs_number") {
		opts = append(opts, config.OptJobsNumber(v.GetInt("jobs_number")))
	}

	return opts
}

// BindFlags overrides config values with CLI flags that were set.
// Flags take precedence over file and environment values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if v.IsSet("host") {
		opts = append(opts, config.OptDatabaseHost(v.GetString("host")))
	}
	if v.IsSet("port") {
		opts = append(opts, config.OptDatabasePort(v.GetInt("port")))
	}
	if v.IsSet("user") {
		opts = append(opts, config.OptDatabaseUser(v.GetString("user")))
	}
	if v.IsSet("password") {
		opts = append(opts, config.OptDatabasePassword(v.GetString("password")))
	}
	if v.IsSet("database") {
		opts = append(opts, config.OptDatabaseDatabase(v.GetString("database")))
	}
	if v.IsSet("ssl-mode") {
		opts = append(opts, config.OptDatabaseSSLMode(v.GetString("ssl-mode")))
	}
	cfg.Update(opts...)

	return nil
}
