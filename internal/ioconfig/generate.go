package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tunedb/tunedb/pkg/config"
)

// DefaultConfigPath returns the default config file location,
// ~/.config/tunedb/tunedb.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(dir, ".config", "tunedb", "tunedb.yaml"), nil
}

// ConfigFileExists checks whether a config file is present at the
// default location.
func ConfigFileExists() (bool, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}
	return true, nil
}

// GenerateDefaultConfig writes the default configuration to the
// default location and returns the path it wrote.
func GenerateDefaultConfig() (string, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.New())
	if err != nil {
		return "", fmt.Errorf("failed to render default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
