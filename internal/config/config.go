// Package config loads the contact form host settings. Values resolve in
// order: defaults, YAML file, .env file, process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvAddr         = "CONTACTFORM_ADDR"
	EnvSessionTTL   = "CONTACTFORM_SESSION_TTL"
	EnvTheme        = "CONTACTFORM_THEME"
	EnvThemeVariant = "CONTACTFORM_THEME_VARIANT"
	EnvThemeFile    = "CONTACTFORM_THEME_MANIFEST"
	EnvPresets      = "CONTACTFORM_PRESETS"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFormat    = "LOG_FORMAT"
)

var (
	ErrInvalidAddr = errors.New("config: server address is required")
	ErrInvalidTTL  = errors.New("config: session ttl must be positive")
	ErrLogFormat   = errors.New("config: log format must be json or console")
)

// Config is the resolved host configuration.
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	Theme   ThemeConfig  `yaml:"theme"`
	Presets string       `yaml:"presets"`
}

type ServerConfig struct {
	Addr       string        `yaml:"addr"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Options controls where Load reads from. Empty paths are skipped.
type Options struct {
	File    string
	EnvFile string
	// Lookup reads the process environment; defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load resolves configuration. A missing .env file is ignored; a missing
// YAML file named explicitly is an error.
func Load(opts Options) (Config, error) {
	cfg := Default()

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.File, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", opts.File, err)
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", opts.EnvFile, err)
		}
		if values != nil {
			dotenv = values
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := cfg.applyEnv(get); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(get func(string) (string, bool)) error {
	if v, ok := get(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := get(EnvSessionTTL); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSessionTTL, err)
		}
		c.Server.SessionTTL = ttl
	}
	if v, ok := get(EnvTheme); ok && v != "" {
		c.Theme.Name = v
	}
	if v, ok := get(EnvThemeVariant); ok && v != "" {
		c.Theme.Variant = v
	}
	if v, ok := get(EnvThemeFile); ok && v != "" {
		c.Theme.ManifestPath = v
	}
	if v, ok := get(EnvPresets); ok && v != "" {
		c.Presets = v
	}
	if v, ok := get(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFormat); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

// Validate rejects settings the host cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return ErrInvalidAddr
	}
	if c.Server.SessionTTL <= 0 {
		return ErrInvalidTTL
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: %q", ErrLogFormat, c.Log.Format)
	}
	return c.Theme.Check()
}
