// Package config loads user preferences for the nodegraph CLI.
//
// Preferences live in a TOML file at $XDG_CONFIG_HOME/nodegraph/config.toml
// (falling back to ~/.config/nodegraph/config.toml). Every key is optional;
// missing keys keep the values from [Default]. Command-line flags override
// whatever the file says.
//
//	catalog   = "~/shaders/nodes.yaml"
//	pretty    = true
//	log_level = "info"
//
//	[cache]
//	enabled = true
//	dir     = "~/.cache/nodegraph"
//	ttl     = "168h"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the config and cache directories.
const AppName = "nodegraph"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config holds CLI preferences.
type Config struct {
	// Catalog is a path to a YAML or JSON node catalog. Empty uses the
	// builtin catalog.
	Catalog string `toml:"catalog"`

	// Pretty indents written documents.
	Pretty bool `toml:"pretty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Cache Cache `toml:"cache"`
}

// Cache configures the on-disk document and export cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	TTL     string `toml:"ttl"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Pretty:   true,
		LogLevel: "info",
		Cache: Cache{
			Enabled: true,
			TTL:     "168h",
		},
	}
}

// Load reads the config file at path over [Default]. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault reads the config file from [Path].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks values the TOML decoder cannot.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if _, err := c.Cache.Duration(); err != nil {
		return err
	}
	return nil
}

// Duration parses the cache TTL. An empty TTL means one week.
func (c Cache) Duration() (time.Duration, error) {
	if c.TTL == "" {
		return 7 * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache.ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("cache.ttl: must be positive, got %s", c.TTL)
	}
	return d, nil
}

// Encode writes c as TOML, for `nodegraph config` style dumps.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Path returns the config file location using the XDG standard.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// CacheDir returns the configured cache directory, or the XDG default
// ($XDG_CACHE_HOME/nodegraph, ~/.cache/nodegraph).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return ExpandHome(c.Cache.Dir)
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rest), nil
}
