package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCapacity   = errors.New("cache.capacity must be positive")
	ErrInvalidTTL        = errors.New("cache.ttl must be positive")
	ErrInvalidMaxResults = errors.New("search.max_results must be positive")
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrBinaryNotSet      = errors.New("binary name is not configured")
)

// Config represents the application configuration
type Config struct {
	// Manager is the package manager binary
	Manager string `yaml:"manager"`
	// PackageDB is the local package database binary
	PackageDB string `yaml:"package_db"`
	// ElevationHelper runs mutating commands as root
	ElevationHelper string `yaml:"elevation_helper"`
	// Dialect selects the builtin output dialect ("dnf4" or "dnf5")
	Dialect string `yaml:"dialect"`
	// DialectFile overrides Dialect with a TOML dialect definition
	DialectFile string         `yaml:"dialect_file,omitempty"`
	Cache       CacheConfig    `yaml:"cache"`
	Search      SearchConfig   `yaml:"search"`
	Timeouts    TimeoutsConfig `yaml:"timeouts"`
	Log         LogConfig      `yaml:"log"`
}

// CacheConfig holds search result cache settings
type CacheConfig struct {
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// SearchConfig holds search settings
type SearchConfig struct {
	MaxResults int `yaml:"max_results"`
}

// TimeoutsConfig bounds each kind of command
type TimeoutsConfig struct {
	Search      time.Duration `yaml:"search"`
	Info        time.Duration `yaml:"info"`
	List        time.Duration `yaml:"list"`
	UpdateCheck time.Duration `yaml:"update_check"`
	Detail      time.Duration `yaml:"detail"`
	Install     time.Duration `yaml:"install"`
	Uninstall   time.Duration `yaml:"uninstall"`
	Upgrade     time.Duration `yaml:"upgrade"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// File enables the log file under XDG_STATE_HOME
	File bool `yaml:"file"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Manager:         "dnf",
		PackageDB:       "rpm",
		ElevationHelper: "pkexec",
		Dialect:         "dnf4",
		Cache: CacheConfig{
			Capacity: 50,
			TTL:      5 * time.Minute,
		},
		Search: SearchConfig{
			MaxResults: 100,
		},
		Timeouts: TimeoutsConfig{
			Search:      30 * time.Second,
			Info:        10 * time.Second,
			List:        30 * time.Second,
			UpdateCheck: 60 * time.Second,
			Detail:      5 * time.Second,
			Install:     5 * time.Minute,
			Uninstall:   5 * time.Minute,
			Upgrade:     10 * time.Minute,
		},
	}
}

// Dir returns the dnfkit configuration directory.
// XDG_CONFIG_HOME is used when set, otherwise ~/.config.
func Dir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "dnfkit"), nil
}

// ConfigPaths returns all possible config file paths in priority order
// 1. ~/.config/dnfkit/config.yaml (XDG standard - priority)
// 2. ~/.dnfkit/config.yaml (legacy fallback)
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	return []string{
		filepath.Join(dir, "config.yaml"),
		filepath.Join(home, ".dnfkit", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the default config file path (XDG standard)
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first existing config file path
// Returns the default path if no config file exists yet
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is created with defaults. Keys absent from the file keep
// their default values. The result is validated.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	binaries := []struct {
		name  string
		value string
	}{
		{"manager", c.Manager},
		{"package_db", c.PackageDB},
		{"elevation_helper", c.ElevationHelper},
	}
	for _, b := range binaries {
		if b.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrBinaryNotSet, b.name))
		}
	}

	if c.Cache.Capacity <= 0 {
		errs = append(errs, ErrInvalidCapacity)
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, ErrInvalidTTL)
	}
	if c.Search.MaxResults <= 0 {
		errs = append(errs, ErrInvalidMaxResults)
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"search", c.Timeouts.Search},
		{"info", c.Timeouts.Info},
		{"list", c.Timeouts.List},
		{"update_check", c.Timeouts.UpdateCheck},
		{"detail", c.Timeouts.Detail},
		{"install", c.Timeouts.Install},
		{"uninstall", c.Timeouts.Uninstall},
		{"upgrade", c.Timeouts.Upgrade},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			errs = append(errs, fmt.Errorf("%w: timeouts.%s", ErrInvalidTimeout, t.name))
		}
	}

	return errors.Join(errs...)
}
