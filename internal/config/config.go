// Package config holds the engine's constants and the coerce.yaml loader.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level coerce.yaml configuration.
type Config struct {
	// CacheLimit is the default number of kinds a call site specializes.
	// Defaults to DefaultCacheLimit.
	CacheLimit int `yaml:"cache_limit,omitempty"`

	// LogLevel is a zerolog level name (debug, info, warn, error, disabled).
	LogLevel string `yaml:"log_level,omitempty"`

	// ProfileDB is the path of the SQLite profile store. Empty disables recording.
	ProfileDB string `yaml:"profile_db,omitempty"`

	// Targets overrides settings per target name (e.g. "i1", "double").
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`
}

// TargetConfig holds per-target overrides.
type TargetConfig struct {
	// CacheLimit overrides Config.CacheLimit for this target. Zero inherits.
	CacheLimit int `yaml:"cache_limit,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a coerce.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses coerce.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) validate(path string) error {
	if err := CheckLimit(c.CacheLimit); err != nil {
		return fmt.Errorf("%s: cache_limit: %w", path, err)
	}
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("%s: log_level: %w", path, err)
		}
	}

	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !IsTarget(name) {
			return fmt.Errorf("%s: targets: unknown target %q (known: %s)", path, name, strings.Join(Targets, ", "))
		}
		if err := CheckLimit(c.Targets[name].CacheLimit); err != nil {
			return fmt.Errorf("%s: targets.%s.cache_limit: %w", path, name, err)
		}
	}
	return nil
}

// CheckLimit validates a cache limit from any source.
func CheckLimit(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	if n > MaxCacheLimit {
		return fmt.Errorf("must be at most %d, got %d", MaxCacheLimit, n)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.CacheLimit == 0 {
		c.CacheLimit = DefaultCacheLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// LimitFor returns the cache limit that applies to the named target.
func (c *Config) LimitFor(target string) int {
	if t, ok := c.Targets[target]; ok && t.CacheLimit > 0 {
		return t.CacheLimit
	}
	if c.CacheLimit > 0 {
		return c.CacheLimit
	}
	return DefaultCacheLimit
}

// Level returns the configured zerolog level, falling back to DefaultLogLevel.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		lvl, _ = zerolog.ParseLevel(DefaultLogLevel)
	}
	return lvl
}
