package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
)

const (
	DefaultOutputDir     = "out"
	DefaultLogDir        = "logs"
	DefaultProgressEvery = 5_000_000
	DefaultDialAttempts  = 5
)

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후에 환경 변수와 CLI 인자로 덮어씁니다.
type Config struct {
	Feed struct {
		Path         string `yaml:"path"`
		WSURL        string `yaml:"ws_url"`
		DialAttempts int    `yaml:"dial_attempts"`
	} `yaml:"feed"`

	Output struct {
		Dir         string `yaml:"dir"`
		ArchivePath string `yaml:"archive_path"` // empty disables the archive
	} `yaml:"output"`

	VWAP struct {
		Mode string `yaml:"mode"` // last | window
	} `yaml:"vwap"`

	Progress struct {
		EveryFrames uint64 `yaml:"every_frames"`
	} `yaml:"progress"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	var cfg Config
	cfg.Feed.DialAttempts = DefaultDialAttempts
	cfg.Output.Dir = DefaultOutputDir
	cfg.VWAP.Mode = domain.LedgerLast.String()
	cfg.Progress.EveryFrames = DefaultProgressEvery
	cfg.Logging.Level = "info"
	cfg.Logging.Dir = DefaultLogDir
	return &cfg
}

// LoadConfig는 설정 파일을 읽고 파싱합니다. 파일이 없으면 기본값을 사용합니다.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &domain.ConfigError{Field: path, Err: err}
		}
	}

	// 환경 변수 오버라이드 지원
	overrideWithEnv(cfg)

	return cfg, nil
}

// LedgerMode returns the parsed vwap.mode.
func (c *Config) LedgerMode() (domain.LedgerMode, error) {
	return domain.ParseLedgerMode(c.VWAP.Mode)
}

// Validate checks configuration validity. It runs after CLI overrides so the
// feed requirement sees the final source.
func (c *Config) Validate() error {
	if _, err := c.LedgerMode(); err != nil {
		return &domain.ConfigError{Field: "vwap.mode", Err: err}
	}
	if c.Output.Dir == "" {
		return &domain.ConfigError{Field: "output.dir", Err: errors.New("must not be empty")}
	}

	// Feed
	if c.Feed.WSURL != "" {
		if !strings.HasPrefix(c.Feed.WSURL, "ws://") && !strings.HasPrefix(c.Feed.WSURL, "wss://") {
			return &domain.ConfigError{Field: "feed.ws_url", Err: fmt.Errorf("invalid websocket URL: %s", c.Feed.WSURL)}
		}
		if c.Feed.DialAttempts <= 0 {
			return &domain.ConfigError{Field: "feed.dial_attempts", Err: errors.New("must be positive")}
		}
		return nil
	}
	if c.Feed.Path == "" {
		return &domain.ConfigError{Field: "feed.path", Err: errors.New("no feed file given")}
	}
	info, err := os.Stat(c.Feed.Path)
	if err != nil || info.IsDir() {
		return &domain.ConfigError{Field: "feed.path", Err: fmt.Errorf("%w: %s", domain.ErrFeedNotFound, c.Feed.Path)}
	}

	return nil
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
func overrideWithEnv(cfg *Config) {
	if path := os.Getenv("ITCH_FEED_PATH"); path != "" {
		cfg.Feed.Path = path
	}
	if dir := os.Getenv("ITCH_OUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if level := os.Getenv("ITCH_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if archive := os.Getenv("ITCH_ARCHIVE_PATH"); archive != "" {
		cfg.Output.ArchivePath = archive
	}
}
