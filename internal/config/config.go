// Package config provides configuration loading and validation for dnslens.
//
// Configuration comes from a JSON file, optionally overlaid with
// environment variables (DNSLENS_*). A .env file in the working directory
// is honored via godotenv, matching container deployments where mounting
// a config file is inconvenient.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/jroosing/dnslens/internal/helpers"
)

// Maximum datagram we ever buffer; larger values in config are clamped.
const maxRecvBufferSize = 65535

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tap: TapConfig{
			Host:           "0.0.0.0",
			Port:           5353,
			RecvBufferSize: 4096,
			MaxConcurrency: 64,
		},
		Database: DatabaseConfig{
			Path:          "dnslens.db",
			RetentionDays: 7,
		},
		API: APIConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// Load reads configuration from the given JSON file (empty path means
// defaults only), applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides overlays DNSLENS_* environment variables onto cfg.
// A .env file, if present, is loaded first (existing env wins).
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("DNSLENS_TAP_HOST"); v != "" {
		cfg.Tap.Host = v
	}
	if v := os.Getenv("DNSLENS_TAP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tap.Port = n
		}
	}
	if v := os.Getenv("DNSLENS_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("DNSLENS_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("DNSLENS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.Tap.Port <= 0 || cfg.Tap.Port > 65535 {
		return errors.New("tap.port must be 1..65535")
	}
	if cfg.Tap.Host == "" {
		cfg.Tap.Host = "0.0.0.0"
	}
	cfg.Tap.RecvBufferSize = helpers.ClampInt(cfg.Tap.RecvBufferSize, 512, maxRecvBufferSize)
	cfg.Tap.MaxConcurrency = helpers.ClampInt(cfg.Tap.MaxConcurrency, 1, 4096)

	if cfg.Database.Path == "" {
		return errors.New("database.path must be set")
	}
	if cfg.Database.RetentionDays <= 0 {
		cfg.Database.RetentionDays = 7
	}

	if cfg.API.Host == "" {
		cfg.API.Host = "127.0.0.1"
	}
	if cfg.API.Enabled {
		if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
			return errors.New("api.port must be 1..65535")
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	return nil
}
