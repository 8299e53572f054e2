package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"clipctl/pkg/errors"
)

var envKeys = []string{
	"CLIPCTL_CONFIG",
	"CLIPCTL_LOG_LEVEL",
	"CLIPCTL_PASTE_FORMAT",
	"CLIPCTL_HISTORY_ENABLED",
	"CLIPCTL_HISTORY_PATH",
	"CLIPCTL_HISTORY_MAX",
}

// clearEnv unsets every CLIPCTL_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	saved := make(map[string]string)
	for _, key := range envKeys {
		if value, ok := os.LookupEnv(key); ok {
			saved[key] = value
		}
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range envKeys {
			if value, ok := saved[key]; ok {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `log_level: debug
paste:
  default_format: html
  markdown: true
history:
  enabled: false
  path: /tmp/clips.db
  max_entries: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.Paste.DefaultFormat != "html" || !cfg.Paste.Markdown {
		t.Errorf("Unexpected paste config %+v", cfg.Paste)
	}
	if cfg.History.Enabled || cfg.History.Path != "/tmp/clips.db" || cfg.History.MaxEntries != 50 {
		t.Errorf("Unexpected history config %+v", cfg.History)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `paste:
  markdown: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("Expected default log level, got '%s'", cfg.LogLevel)
	}
	if cfg.Paste.DefaultFormat != DefaultPasteFormat {
		t.Errorf("Expected default paste format, got '%s'", cfg.Paste.DefaultFormat)
	}
	if !cfg.History.Enabled || cfg.History.MaxEntries != DefaultHistoryMaxEntries {
		t.Errorf("Expected default history config, got %+v", cfg.History)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `paste:
  default_format: text
  - invalid yaml
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid YAML, got nil")
	}
	if !errors.IsExitCode(err, errors.ExitCodeConfig) {
		t.Errorf("Expected config exit code, got %v", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{name: "unknown log level", content: "log_level: chatty\n", message: "unknown log level"},
		{name: "empty default format", content: "paste:\n  default_format: \"  \"\n", message: "default_format"},
		{name: "negative max entries", content: "history:\n  max_entries: -1\n", message: "max_entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Unexpected error message: %v", err)
			}
			if !errors.IsExitCode(err, errors.ExitCodeConfig) {
				t.Errorf("Expected config exit code, got %v", err)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `log_level: info
history:
  enabled: true
  max_entries: 10
`)
	os.Setenv("CLIPCTL_LOG_LEVEL", "error")
	os.Setenv("CLIPCTL_PASTE_FORMAT", "rtf")
	os.Setenv("CLIPCTL_HISTORY_ENABLED", "false")
	os.Setenv("CLIPCTL_HISTORY_PATH", "/var/tmp/h.db")
	os.Setenv("CLIPCTL_HISTORY_MAX", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Expected log level 'error', got '%s'", cfg.LogLevel)
	}
	if cfg.Paste.DefaultFormat != "rtf" {
		t.Errorf("Expected paste format 'rtf', got '%s'", cfg.Paste.DefaultFormat)
	}
	if cfg.History.Enabled {
		t.Error("Expected history disabled by environment")
	}
	if cfg.History.Path != "/var/tmp/h.db" || cfg.History.MaxEntries != 7 {
		t.Errorf("Unexpected history config %+v", cfg.History)
	}
}

func TestLoad_BadEnvironmentValuesIgnored(t *testing.T) {
	clearEnv(t)
	os.Setenv("CLIPCTL_HISTORY_MAX", "lots")
	os.Setenv("CLIPCTL_HISTORY_ENABLED", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.History.MaxEntries != DefaultHistoryMaxEntries || !cfg.History.Enabled {
		t.Errorf("Expected defaults for unparsable overrides, got %+v", cfg.History)
	}
}

func TestResolvePath(t *testing.T) {
	clearEnv(t)

	if got, _ := ResolvePath("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("ResolvePath() = %q, want explicit path", got)
	}

	os.Setenv("CLIPCTL_CONFIG", "/from/env.yaml")
	if got, _ := ResolvePath(""); got != "/from/env.yaml" {
		t.Errorf("ResolvePath() = %q, want env path", got)
	}

	os.Unsetenv("CLIPCTL_CONFIG")
	got, err := ResolvePath("")
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join("clipctl", "config.yaml")) {
		t.Errorf("ResolvePath() = %q, want default location", got)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Paste.Markdown = true
	cfg.History.MaxEntries = 5
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved config is not YAML: %v", err)
	}
	if _, ok := raw["history"]; !ok {
		t.Errorf("Saved config lacks history section: %s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	cfg.History.Path = "/custom/history.db"
	if got, _ := cfg.HistoryPath(); got != "/custom/history.db" {
		t.Errorf("HistoryPath() = %q", got)
	}

	cfg.History.Path = ""
	got, err := cfg.HistoryPath()
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	if filepath.Base(got) != "history.db" {
		t.Errorf("HistoryPath() = %q", got)
	}
}
