package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Threatwrix/drive-maturity-model/internal/logging"
)

// DefaultPath is read when no config file is named explicitly.
const DefaultPath = "drive-checks.yaml"

// Environment overrides, applied after the file is read.
const (
	EnvChecksDir = "DRIVE_CHECKS_DIR"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	lc := logging.DefaultConfig()
	return &Config{
		ChecksDir: "checks",
		Log: LogConfig{
			Level:  lc.Level,
			Format: lc.Format,
		},
		Output: OutputConfig{
			Color: true,
		},
		Catalog: CatalogConfig{
			OutputDir: "docs/catalog",
			Fallback:  "catalog/drive_risk_catalog.json",
		},
	}
}

// Load reads and validates the config file at path. The file must exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return parse(path, data)
}

// LoadOptional is Load for the default path: a missing file yields the
// defaults rather than an error.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		applyEnv(cfg)
		return cfg, validate(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, formatYAMLError(path, err)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ChecksDir = envOrDefault(EnvChecksDir, cfg.ChecksDir)
	cfg.Log.Level = envOrDefault(EnvLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOrDefault(EnvLogFormat, cfg.Log.Format)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.ChecksDir) == "" {
		return fmt.Errorf("config error: checks_dir must not be empty")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("config error: invalid log level %q, must be one of: debug, info, warn, error", cfg.Log.Level)
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[cfg.Log.Format] {
		return fmt.Errorf("config error: invalid log format %q, must be one of: console, json", cfg.Log.Format)
	}

	if strings.TrimSpace(cfg.Catalog.OutputDir) == "" {
		return fmt.Errorf("config error: catalog.output_dir must not be empty")
	}

	return nil
}

func formatYAMLError(path string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "line") {
		return fmt.Errorf("syntax error in %s: %s", path, msg)
	}
	return fmt.Errorf("failed to parse %s: %s", path, msg)
}
