// Package config loads the deployment configuration for briefmatrix.
// The two open policy points live here: the per-cell brief count cap and
// the snapshot hash algorithm. Neither is a code constant.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigDir is the dot-directory briefmatrix keeps next to a project (or
// under the home directory as a fallback).
const ConfigDir = ".briefmatrix"

// ConfigFile is the configuration file name inside ConfigDir.
const ConfigFile = "config.yaml"

// Config is the deployment configuration.
type Config struct {
	// DatabasePath overrides the default SQLite location when set.
	DatabasePath string `yaml:"database_path,omitempty"`
	// BriefCountCap is the maximum brief_count per cell; 0 means uncapped.
	BriefCountCap int `yaml:"brief_count_cap"`
	// HashAlgorithm selects the snapshot hasher: blake3 (default) or sha256.
	HashAlgorithm string `yaml:"hash_algorithm,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BriefCountCap: 0,
		HashAlgorithm: "blake3",
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.BriefCountCap < 0 {
		return fmt.Errorf("brief_count_cap must be >= 0, got %d", c.BriefCountCap)
	}
	switch c.HashAlgorithm {
	case "", "blake3", "sha256":
	default:
		return fmt.Errorf("hash_algorithm %q is not supported (blake3, sha256)", c.HashAlgorithm)
	}
	return nil
}

// DefaultPath returns the configuration file path: project-local when a
// .briefmatrix directory exists, otherwise under the home directory.
func DefaultPath() string {
	local := filepath.Join(ConfigDir, ConfigFile)
	if _, err := os.Stat(ConfigDir); err == nil {
		return local
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return local
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist. An unreadable or invalid file is an error, not
// a silent fallback.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
