// SPDX-License-Identifier: MIT

// Package config handles loading, saving, and resolving the Pendector
// configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

const (
	// EnvConfig overrides the config file location.
	EnvConfig = "PENDECTOR_CONFIG"
	// TOMLFilename is the preferred config file name.
	TOMLFilename = "config.toml"
	// YAMLFilename is the alternative config file name.
	YAMLFilename = "config.yaml"
)

// Defaults holds the values used when no path config or flag applies.
type Defaults struct {
	MaxDepth     int      `toml:"max_depth" yaml:"max_depth"`
	Fetch        bool     `toml:"fetch" yaml:"fetch"`
	FetchTimeout int      `toml:"fetch_timeout" yaml:"fetch_timeout"`
	Format       string   `toml:"format" yaml:"format"`
	Verbose      bool     `toml:"verbose" yaml:"verbose"`
	ChangesOnly  bool     `toml:"changes_only" yaml:"changes_only"`
	Paths        []string `toml:"paths" yaml:"paths"`
	Exclude      []string `toml:"exclude" yaml:"exclude"`
	Remote       string   `toml:"remote" yaml:"remote"`
	Jobs         int      `toml:"jobs" yaml:"jobs"`
}

// PathConfig overrides defaults for a directory and everything below it.
// Nil fields inherit.
type PathConfig struct {
	Path         string   `toml:"path" yaml:"path"`
	MaxDepth     *int     `toml:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	Fetch        *bool    `toml:"fetch,omitempty" yaml:"fetch,omitempty"`
	FetchTimeout *int     `toml:"fetch_timeout,omitempty" yaml:"fetch_timeout,omitempty"`
	Verbose      *bool    `toml:"verbose,omitempty" yaml:"verbose,omitempty"`
	ChangesOnly  *bool    `toml:"changes_only,omitempty" yaml:"changes_only,omitempty"`
	Exclude      []string `toml:"exclude,omitempty" yaml:"exclude,omitempty"`
	Remote       *string  `toml:"remote,omitempty" yaml:"remote,omitempty"`
}

// Config is the on-disk configuration.
type Config struct {
	Defaults    Defaults     `toml:"defaults" yaml:"defaults"`
	PathConfigs []PathConfig `toml:"path_configs" yaml:"path_configs"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Defaults: Defaults{
			MaxDepth:     3,
			Fetch:        false,
			FetchTimeout: 5,
			Format:       "text",
			Paths:        []string{"."},
			Exclude:      []string{},
			Remote:       "origin",
		},
		PathConfigs: []PathConfig{},
	}
}

// Error reports a config file that exists but cannot be used.
type Error struct {
	Path  string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid config file '%s': %v", e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// ConfigDir returns the platform-appropriate config directory path.
// It checks, in order: the override parameter, PENDECTOR_CONFIG, and
// finally os.UserConfigDir()/pendector.
func ConfigDir(override string) (string, error) {
	if override != "" {
		if isConfigFilePath(override) {
			return filepath.Dir(override), nil
		}
		return override, nil
	}

	if env := os.Getenv(EnvConfig); env != "" {
		if isConfigFilePath(env) {
			return filepath.Dir(env), nil
		}
		return env, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pendector"), nil
}

// ConfigPath resolves the config file path from override/env/defaults.
// Within a directory, config.toml wins over config.yaml; when neither
// exists the config.toml path is returned.
func ConfigPath(override string) (string, error) {
	source := override
	if source == "" {
		source = os.Getenv(EnvConfig)
	}
	if source != "" && isConfigFilePath(source) {
		return source, nil
	}
	dir, err := ConfigDir(override)
	if err != nil {
		return "", err
	}
	tomlPath := filepath.Join(dir, TOMLFilename)
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	yamlPath := filepath.Join(dir, YAMLFilename)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath, nil
	}
	return tomlPath, nil
}

// Load reads the config file at path. A missing file yields the defaults;
// an unreadable or malformed one yields an *Error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, &Error{Path: path, Cause: err}
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, &Error{Path: path, Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Path: path, Cause: err}
	}
	return &cfg, nil
}

// Save writes the config to path in the format its extension names.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = toml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values no command could honor.
func (c *Config) Validate() error {
	if c.Defaults.MaxDepth < 0 {
		return fmt.Errorf("defaults.max_depth must be non-negative, got %d", c.Defaults.MaxDepth)
	}
	if c.Defaults.FetchTimeout < 0 {
		return fmt.Errorf("defaults.fetch_timeout must be non-negative, got %d", c.Defaults.FetchTimeout)
	}
	if c.Defaults.Jobs < 0 {
		return fmt.Errorf("defaults.jobs must be non-negative, got %d", c.Defaults.Jobs)
	}
	for i, pc := range c.PathConfigs {
		if strings.TrimSpace(pc.Path) == "" {
			return fmt.Errorf("path_configs[%d].path is required", i)
		}
		if pc.MaxDepth != nil && *pc.MaxDepth < 0 {
			return fmt.Errorf("path_configs[%d].max_depth must be non-negative", i)
		}
		if pc.FetchTimeout != nil && *pc.FetchTimeout < 0 {
			return fmt.Errorf("path_configs[%d].fetch_timeout must be non-negative", i)
		}
	}
	return nil
}

func isConfigFilePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
