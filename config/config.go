// Package config loads and persists backfill's settings: target
// repositories, commit identity, and output preferences. The token is never
// stored here; it only ever comes from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Owner is the GitHub account the target repositories live under.
	Owner string `yaml:"owner,omitempty"`

	// Repos are the target repository names (without owner or URL).
	Repos []string `yaml:"repos,omitempty"`

	// AuthorName and AuthorEmail are recorded on every generated commit.
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`

	// Branch pins the push branch. Empty resolves the remote default.
	Branch string `yaml:"branch,omitempty"`

	// Workers is the number of repositories processed concurrently.
	Workers int `yaml:"workers,omitempty"`

	// DefaultFormat is the output format when no flag is given (table, json).
	DefaultFormat string `yaml:"default_format,omitempty"`
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".backfill"
	}
	return filepath.Join(configDir, "backfill")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current
// directory.
func LocalConfigPath() string {
	return ".backfill.yaml"
}

// Load loads the configuration from disk: the global config first, then any
// local .backfill.yaml merged on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{
		DefaultFormat: "table",
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config. Local values win
// when set; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := *global
	if local.Owner != "" {
		result.Owner = local.Owner
	}
	if len(local.Repos) > 0 {
		result.Repos = local.Repos
	}
	if local.AuthorName != "" {
		result.AuthorName = local.AuthorName
	}
	if local.AuthorEmail != "" {
		result.AuthorEmail = local.AuthorEmail
	}
	if local.Branch != "" {
		result.Branch = local.Branch
	}
	if local.Workers != 0 {
		result.Workers = local.Workers
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}
	return &result
}

// Save writes the configuration to the global config file.
func (c *Config) Save() error {
	if err := os.MkdirAll(DefaultConfigDir(), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Tokens are only ever read from the environment, never from the
// config file.
func (c *Config) GetToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// ToYAML returns the config as a YAML string.
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths.
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs.
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments.
func MinimalConfig() string {
	return `# backfill configuration file

# GitHub account the target repositories live under
owner: your-login

# Target repository names (without owner)
repos:
  - scratch-repo

# Commit identity (should match your GitHub account so contributions count)
author_name: Your Name
author_email: you@example.com

# Output format: table or json
default_format: table

# The token is NOT stored here. Set the GITHUB_TOKEN environment variable.
`
}

// SaveTo writes content to a specific path, creating directories as needed.
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
