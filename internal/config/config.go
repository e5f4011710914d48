package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the user config directory.
const FileName = "budgetbook.yaml"

// Config represents the budgetbook.yaml application configuration.
type Config struct {
	LastFile string      `yaml:"last_file,omitempty"`
	Git      GitConfig   `yaml:"git"`
	Audit    AuditConfig `yaml:"audit"`
}

// GitConfig controls auto-committing the data file after save.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// AuditConfig controls the CSV audit trail of ledger mutations.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // default: <data file>.audit.csv
}

// DefaultPath returns the config file path under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "budgetbook", FileName), nil
}

// Load reads a budgetbook.yaml file from disk. A missing file yields the
// defaults rather than an error, matching first-run behavior.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a first run.
func Default() *Config {
	return &Config{
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "budgetbook",
			AuthorEmail: "budgetbook@localhost",
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// AuditPath returns the audit log path for a data file, honoring an explicit
// override in the config.
func (c *Config) AuditPath(dataFile string) string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	return dataFile + ".audit.csv"
}
