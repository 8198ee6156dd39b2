// Package config loads tool configuration from a TOML file, applying
// defaults for anything absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds user-tunable settings.
type Config struct {
	// StorePath is the directory for the embedded board store.
	StorePath string `toml:"store_path"`
	// Models are the generation model ids fanned out per request.
	Models []string `toml:"models"`
	// RequestTimeout bounds a single generation request.
	RequestTimeout duration `toml:"request_timeout"`
}

// duration wraps time.Duration with TOML text parsing ("30s", "2m").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StorePath:      defaultStorePath(),
		Models:         []string{"gpt-4o-mini"},
		RequestTimeout: duration{30 * time.Second},
	}
}

// Load reads a config file and overlays it on the defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath()
	}
	if len(cfg.Models) == 0 {
		cfg.Models = Default().Models
	}
	if cfg.RequestTimeout.Duration <= 0 {
		cfg.RequestTimeout = Default().RequestTimeout
	}
	return cfg, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "muse.toml"
	}
	return filepath.Join(dir, "muse", "config.toml")
}

func defaultStorePath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".muse"
	}
	return filepath.Join(dir, ".local", "share", "muse", "board")
}
