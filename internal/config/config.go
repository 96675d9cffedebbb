// Package config loads msrdoc settings from defaults, an optional YAML file
// and MSRDOC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// Dir is the per-user directory holding the config file and update cache
	Dir = ".msrdoc"

	envPrefix = "MSRDOC"

	defaultInterval = 7
)

var (
	// ErrInvalidTheme indicates an unknown viewer theme
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config holds the user-tunable settings
type Config struct {
	Theme               string // auto, light or dark
	LogLevel            string // logrus level name
	SkipUpdateCheck     bool
	UpdateCheckInterval int // days between cached release checks
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Theme:               "auto",
		LogLevel:            "warn",
		SkipUpdateCheck:     false,
		UpdateCheckInterval: defaultInterval,
	}
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables (MSRDOC_*)
// 2. Config file (path, or ~/.msrdoc/config.yaml when path is empty)
// 3. Default values
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, Dir))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.BindEnv("theme")
	v.BindEnv("log_level")
	v.BindEnv("skip_update_check")
	v.BindEnv("update_check_interval")

	defaults := Default()
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("skip_update_check", "false")
	v.SetDefault("update_check_interval", defaults.UpdateCheckInterval)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - defaults + env vars apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Theme:               strings.ToLower(strings.TrimSpace(v.GetString("theme"))),
		LogLevel:            strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		SkipUpdateCheck:     IsTruthy(v.GetString("skip_update_check")),
		UpdateCheckInterval: v.GetInt("update_check_interval"),
	}
	if cfg.UpdateCheckInterval <= 0 {
		cfg.UpdateCheckInterval = defaultInterval
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that enumerated settings hold known values.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.Theme {
	case "auto", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'auto', 'light' or 'dark', got '%s'", ErrInvalidTheme, cfg.Theme))
	}

	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		errs = append(errs, fmt.Errorf("%w: '%s'", ErrInvalidLogLevel, cfg.LogLevel))
	}

	return errors.Join(errs...)
}

// IsTruthy reports whether an env-style flag value is set.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
