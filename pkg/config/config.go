package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"clipctl/pkg/errors"
	"clipctl/pkg/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel          = "warn"
	DefaultPasteFormat       = "text"
	DefaultHistoryMaxEntries = 200
)

// Config holds the complete clipctl configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	Paste    PasteConfig   `yaml:"paste"`
	History  HistoryConfig `yaml:"history"`
}

type PasteConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Markdown      bool   `yaml:"markdown"`
}

type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxEntries int    `yaml:"max_entries"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Paste: PasteConfig{
			DefaultFormat: DefaultPasteFormat,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultHistoryMaxEntries,
		},
	}
}

// Load reads the configuration from path, CLIPCTL_CONFIG or the default
// location, in that order of preference.
func Load(path string) (*Config, error) {
	configPath, err := ResolvePath(path)
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return loadFromPath(configPath)
}

// ResolvePath returns the config file that Load would read.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv("CLIPCTL_CONFIG"); env != "" {
		return env, nil
	}
	return GetConfigPath()
}

// GetConfigPath returns the default path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "clipctl", "config.yaml"), nil
}

// Save writes cfg to path, creating the parent directory.
func Save(cfg *Config, path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to write config file", err)
	}

	return nil
}

// HistoryPath returns the configured history database, falling back to the
// user cache directory.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "clipctl", "history.db"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logger.Warn().Str("key", key).Str("value", value).Msg("ignoring non-numeric environment override")
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		logger.Warn().Str("key", key).Str("value", value).Msg("ignoring non-boolean environment override")
	}
	return defaultValue
}

func loadFromPath(configPath string) (*Config, error) {
	cfg := Default()

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile reads and parses the config file from the given path over
// the values already in cfg.
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// File doesn't exist, that's okay - defaults and env vars apply
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides lets CLIPCTL_* variables take precedence over
// the file.
func applyEnvironmentOverrides(cfg *Config) {
	cfg.LogLevel = getEnv("CLIPCTL_LOG_LEVEL", cfg.LogLevel)
	cfg.Paste.DefaultFormat = getEnv("CLIPCTL_PASTE_FORMAT", cfg.Paste.DefaultFormat)
	cfg.History.Enabled = getEnvBool("CLIPCTL_HISTORY_ENABLED", cfg.History.Enabled)
	cfg.History.Path = getEnv("CLIPCTL_HISTORY_PATH", cfg.History.Path)
	cfg.History.MaxEntries = getEnvInt("CLIPCTL_HISTORY_MAX", cfg.History.MaxEntries)
}

// validateConfig rejects values no command could work with
func validateConfig(cfg *Config) error {
	if !logger.ValidLevel(cfg.LogLevel) {
		return errors.ConfigError(fmt.Sprintf("unknown log level %q. Use debug, info, warn or error", cfg.LogLevel))
	}
	if strings.TrimSpace(cfg.Paste.DefaultFormat) == "" {
		return errors.ConfigError("paste default_format must not be empty. Set it in config file or CLIPCTL_PASTE_FORMAT")
	}
	if cfg.History.MaxEntries < 0 {
		return errors.ConfigError("history max_entries must not be negative. Use 0 to keep every entry")
	}
	return nil
}
