package infra

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new slog.Logger with log rotation support.
// Every record carries the run id so archived snapshots can be matched to logs.
func NewLogger(cfg *Config, runID string) *slog.Logger {
	return newLogger(cfg, runID, os.Stdout)
}

func newLogger(cfg *Config, runID string, console io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Logging.Level),
	}

	// Create logs directory if not exists
	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = DefaultLogDir
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fallback to stderr if directory creation fails
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)).With(slog.String("run_id", runID))
	}

	// Setup lumberjack logger for file rotation
	fileLogger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "itch.log"),
		MaxSize:    10,   // Megabytes
		MaxBackups: 3,    // Number of backups
		MaxAge:     28,   // Days
		Compress:   true, // Disabled by default
	}

	// Multi-writer: Log to both file and stdout
	writer := io.MultiWriter(console, fileLogger)

	return slog.New(slog.NewJSONHandler(writer, opts)).With(slog.String("run_id", runID))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
