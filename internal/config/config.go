package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/frecent/config.yaml"

// Config holds all frecent configuration.
type Config struct {
	Retention RetentionConfig `yaml:"retention"`
	Capture   CaptureConfig   `yaml:"capture"`
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Favicon   FaviconConfig   `yaml:"favicon"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type RetentionConfig struct {
	Days       int `yaml:"days"`
	MaxEntries int `yaml:"max_entries"`
}

type CaptureConfig struct {
	DenylistDomains    []string `yaml:"denylist_domains"`
	DenylistRegex      []string `yaml:"denylist_regex"`
	UseDefaultDenylist bool     `yaml:"use_default_denylist"`
}

type StorageConfig struct {
	Path              string `yaml:"path"`
	Backend           string `yaml:"backend"`
	SQLiteFile        string `yaml:"sqlite_file"`
	JSONFile          string `yaml:"json_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
}

type SearchConfig struct {
	DebounceMS      int `yaml:"debounce_ms"`
	Limit           int `yaml:"limit"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	CacheSize       int `yaml:"cache_size"`
}

type FaviconConfig struct {
	MaxBytes int `yaml:"max_bytes"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML, or
// fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// Validate reports every setting that cannot be used, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	if c.Retention.Days <= 0 {
		errs = append(errs, fmt.Errorf("retention.days must be positive, got %d", c.Retention.Days))
	}
	if c.Retention.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("retention.max_entries must be positive, got %d", c.Retention.MaxEntries))
	}
	switch c.Storage.Backend {
	case "sqlite", "json":
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be sqlite or json, got %q", c.Storage.Backend))
	}
	if c.Search.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("search.debounce_ms must not be negative, got %d", c.Search.DebounceMS))
	}
	if c.Search.CacheTTLSeconds < 0 || c.Search.CacheSize < 0 {
		errs = append(errs, errors.New("search cache settings must not be negative"))
	}
	if c.Favicon.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("favicon.max_bytes must not be negative, got %d", c.Favicon.MaxBytes))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	for _, pattern := range c.Capture.DenylistRegex {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("capture.denylist_regex %q: %w", pattern, err))
		}
	}
	return errors.Join(errs...)
}

// StorageDir returns the expanded storage directory.
func (c *Config) StorageDir() (string, error) {
	return ExpandPath(c.Storage.Path)
}

// HistoryFile returns the full path of the file used by the configured
// backend.
func (c *Config) HistoryFile() (string, error) {
	dir, err := c.StorageDir()
	if err != nil {
		return "", err
	}
	name := c.Storage.SQLiteFile
	if c.Storage.Backend == "json" {
		name = c.Storage.JSONFile
	}
	return filepath.Join(dir, name), nil
}

// LogFile returns the full path of the log file, or "" to log to stderr.
// Relative names are placed in the storage directory.
func (c *Config) LogFile() (string, error) {
	if c.Logging.File == "" {
		return "", nil
	}
	path, err := ExpandPath(c.Logging.File)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dir, err := c.StorageDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

// DenylistDomains returns the configured domains plus, when enabled, the
// built-in sensitive-domain list.
func (c *Config) DenylistDomains() []string {
	domains := append([]string(nil), c.Capture.DenylistDomains...)
	if c.Capture.UseDefaultDenylist {
		domains = append(domains, DefaultDenylistDomains()...)
	}
	return domains
}

func (c *Config) DebounceInterval() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Search.CacheTTLSeconds) * time.Second
}
