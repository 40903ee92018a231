// Package config loads library configuration from the environment or
// from a YAML file. The default session is built from it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Backend kinds selectable via MODELVAULT_BACKEND.
const (
	BackendLocal  = "local"
	BackendMemory = "memory"
	BackendHTTP   = "http"
)

// Config holds all library configuration.
type Config struct {
	Backend BackendConfig
	HTTP    HTTPConfig
	Logging LogConfig
}

// BackendConfig selects and parameterizes the default storage backend.
type BackendConfig struct {
	Kind    string `envconfig:"MODELVAULT_BACKEND" default:"local"`
	Root    string `envconfig:"MODELVAULT_ROOT"`
	BaseURL string `envconfig:"MODELVAULT_BASE_URL"`
}

// HTTPConfig tunes the HTTP blob backend.
type HTTPConfig struct {
	Timeout           time.Duration `envconfig:"MODELVAULT_HTTP_TIMEOUT" default:"30s"`
	RetryMax          int           `envconfig:"MODELVAULT_HTTP_RETRY_MAX" default:"3"`
	RetryWaitMin      time.Duration `envconfig:"MODELVAULT_HTTP_RETRY_WAIT_MIN" default:"1s"`
	RetryWaitMax      time.Duration `envconfig:"MODELVAULT_HTTP_RETRY_WAIT_MAX" default:"30s"`
	RequestsPerSecond float64       `envconfig:"MODELVAULT_HTTP_RPS" default:"0"`
	Burst             int           `envconfig:"MODELVAULT_HTTP_BURST" default:"0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"MODELVAULT_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"MODELVAULT_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Kind: BackendLocal,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			RetryMax:     3,
			RetryWaitMin: 1 * time.Second,
			RetryWaitMax: 30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// StorageRoot returns the local backend root, defaulting to .modelvault
// in the user's home directory.
func (c *Config) StorageRoot() string {
	if c.Backend.Root != "" {
		return c.Backend.Root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".modelvault"
	}
	return filepath.Join(home, ".modelvault")
}

// fileConfig is the YAML schema. Durations are strings so files can say
// "30s"; pointer fields distinguish absent from zero.
type fileConfig struct {
	Backend struct {
		Kind    string `yaml:"kind"`
		Root    string `yaml:"root"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"backend"`
	HTTP struct {
		Timeout           string   `yaml:"timeout"`
		RetryMax          *int     `yaml:"retry_max"`
		RetryWaitMin      string   `yaml:"retry_wait_min"`
		RetryWaitMax      string   `yaml:"retry_wait_max"`
		RequestsPerSecond *float64 `yaml:"requests_per_second"`
		Burst             *int     `yaml:"burst"`
	} `yaml:"http"`
	Logging struct {
		Level       string `yaml:"level"`
		Development *bool  `yaml:"development"`
	} `yaml:"logging"`
}

// LoadFile loads configuration from a YAML file, applying it over the
// defaults. Keys absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Default()
	if fc.Backend.Kind != "" {
		cfg.Backend.Kind = fc.Backend.Kind
	}
	if fc.Backend.Root != "" {
		cfg.Backend.Root = fc.Backend.Root
	}
	if fc.Backend.BaseURL != "" {
		cfg.Backend.BaseURL = fc.Backend.BaseURL
	}

	if err := applyDuration(&cfg.HTTP.Timeout, fc.HTTP.Timeout); err != nil {
		return nil, fmt.Errorf("config file %s: timeout: %w", path, err)
	}
	if err := applyDuration(&cfg.HTTP.RetryWaitMin, fc.HTTP.RetryWaitMin); err != nil {
		return nil, fmt.Errorf("config file %s: retry_wait_min: %w", path, err)
	}
	if err := applyDuration(&cfg.HTTP.RetryWaitMax, fc.HTTP.RetryWaitMax); err != nil {
		return nil, fmt.Errorf("config file %s: retry_wait_max: %w", path, err)
	}
	if fc.HTTP.RetryMax != nil {
		cfg.HTTP.RetryMax = *fc.HTTP.RetryMax
	}
	if fc.HTTP.RequestsPerSecond != nil {
		cfg.HTTP.RequestsPerSecond = *fc.HTTP.RequestsPerSecond
	}
	if fc.HTTP.Burst != nil {
		cfg.HTTP.Burst = *fc.HTTP.Burst
	}

	if fc.Logging.Level != "" {
		cfg.Logging.Level = fc.Logging.Level
	}
	if fc.Logging.Development != nil {
		cfg.Logging.Development = *fc.Logging.Development
	}

	return cfg, nil
}

func applyDuration(dst *time.Duration, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
