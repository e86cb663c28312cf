package infra

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Dir != DefaultOutputDir || cfg.VWAP.Mode != "last" || cfg.Progress.EveryFrames != DefaultProgressEvery {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
feed:
  path: /data/01302019.NASDAQ_ITCH50
output:
  dir: results
  archive_path: results/archive.db
vwap:
  mode: window
logging:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Feed.Path != "/data/01302019.NASDAQ_ITCH50" || cfg.Output.Dir != "results" {
		t.Errorf("unexpected feed/output %+v", cfg)
	}
	if mode, _ := cfg.LedgerMode(); mode != domain.LedgerWindow {
		t.Errorf("expected window mode, got %s", mode)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Logging.Dir != DefaultLogDir || cfg.Feed.DialAttempts != DefaultDialAttempts {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "feed: [unclosed")

	_, err := LoadConfig(path)
	var ce *domain.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ITCH_FEED_PATH", "/env/feed")
	t.Setenv("ITCH_OUT_DIR", "/env/out")
	t.Setenv("ITCH_LOG_LEVEL", "warn")
	t.Setenv("ITCH_ARCHIVE_PATH", "/env/archive.db")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Feed.Path != "/env/feed" || cfg.Output.Dir != "/env/out" ||
		cfg.Logging.Level != "warn" || cfg.Output.ArchivePath != "/env/archive.db" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()
	feed := writeFile(t, dir, "feed.itch", "")

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"Valid", func(c *Config) { c.Feed.Path = feed }, ""},
		{"ValidWebsocket", func(c *Config) { c.Feed.WSURL = "wss://feed.example/itch" }, ""},
		{"NoFeed", func(c *Config) {}, "feed.path"},
		{"MissingFeed", func(c *Config) { c.Feed.Path = filepath.Join(dir, "missing") }, "feed.path"},
		{"FeedIsDir", func(c *Config) { c.Feed.Path = dir }, "feed.path"},
		{"BadScheme", func(c *Config) { c.Feed.WSURL = "http://feed" }, "feed.ws_url"},
		{"BadMode", func(c *Config) { c.Feed.Path = feed; c.VWAP.Mode = "twap" }, "vwap.mode"},
		{"EmptyOut", func(c *Config) { c.Feed.Path = feed; c.Output.Dir = "" }, "output.dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			var ce *domain.ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("expected ConfigError on %s, got %v", tt.field, err)
			}
			if domain.IsRecoverable(err) {
				t.Error("config errors are never recoverable")
			}
		})
	}
}

func TestConfig_ValidateFeedNotFound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Feed.Path = filepath.Join(t.TempDir(), "missing")

	if err := cfg.Validate(); !errors.Is(err, domain.ErrFeedNotFound) {
		t.Errorf("expected ErrFeedNotFound, got %v", err)
	}
}

func TestNewLogger_RunID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "debug"

	var console bytes.Buffer
	logger := newLogger(cfg, "run-42", &console)
	logger.Debug("hello")

	line := console.String()
	if !strings.Contains(line, `"run_id":"run-42"`) || !strings.Contains(line, `"msg":"hello"`) {
		t.Errorf("unexpected log line %q", line)
	}
	if _, err := os.Stat(filepath.Join(cfg.Logging.Dir, "itch.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{"debug": "DEBUG", "warn": "WARN", "error": "ERROR", "": "INFO", "verbose": "INFO"}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
