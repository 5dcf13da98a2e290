// Package config provides configuration management for the smpc CLI tool
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/privamed/smpc/pkg/crypto/secretsharing"
)

// Config represents the main configuration structure
type Config struct {
	Version  string          `json:"version"`
	Defaults DefaultSettings `json:"defaults"`
	Storage  StorageConfig   `json:"storage"`
	Logging  LoggingConfig   `json:"logging"`
}

// DefaultSettings contains default values for session creation
type DefaultSettings struct {
	Scheme    string `json:"scheme"`    // Default: shamir-threshold-v1
	Threshold int    `json:"threshold"` // Default: 2
}

// StorageConfig contains session persistence settings
type StorageConfig struct {
	SessionDir string `json:"session_dir"` // Directory for session JSON files
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `json:"level"` // trace, debug, info, warn, error
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Defaults: DefaultSettings{
			Scheme:    string(secretsharing.SchemeShamirThreshold),
			Threshold: 2,
		},
		Storage: StorageConfig{
			SessionDir: defaultSessionDir(),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, "smpc", "config.json"), nil
}

// Load reads the config file, falling back to defaults if it is missing.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the config file, creating parent directories as needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smpc/sessions"
	}
	return filepath.Join(home, ".smpc", "sessions")
}
