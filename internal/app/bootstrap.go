package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
	"github.com/cerdo03/VWAP-NASDAQ/internal/engine"
	"github.com/cerdo03/VWAP-NASDAQ/internal/event"
	"github.com/cerdo03/VWAP-NASDAQ/internal/infra"
	"github.com/cerdo03/VWAP-NASDAQ/internal/infra/itch"
	"github.com/cerdo03/VWAP-NASDAQ/internal/infra/storage"
)

// DefaultConfigPath is read when no -config flag is given. It may be absent.
const DefaultConfigPath = "configs/config.yaml"

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	RunID     string
	Metrics   *infra.Metrics
	Sequencer *engine.Sequencer
	Archive   *storage.Archive
	Output    *storage.TextWriter
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{
		RunID:   uuid.NewString(),
		Metrics: &infra.Metrics{},
	}
}

// Initialize loads configuration, sets up logging and wires the publishers.
// feedPath, when not empty, overrides any configured source.
func (b *Bootstrap) Initialize(configPath, feedPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	if feedPath != "" {
		cfg.Feed.Path = feedPath
		cfg.Feed.WSURL = ""
	}
	b.Config = cfg

	// 2. Setup Logger
	slog.SetDefault(infra.NewLogger(cfg, b.RunID))
	slog.Info("🚀 Bootstrapping ITCH VWAP decoder...")

	if err := cfg.Validate(); err != nil {
		return err
	}
	mode, _ := cfg.LedgerMode()

	// 3. Publishers
	writer, err := storage.NewTextWriter(cfg.Output.Dir)
	if err != nil {
		return &domain.ConfigError{Field: "output.dir", Err: err}
	}
	b.Output = writer
	publishers := storage.MultiPublisher{writer}

	if cfg.Output.ArchivePath != "" {
		archive, err := b.openArchive(mode)
		if err != nil {
			return err
		}
		b.Archive = archive
		publishers = append(publishers, archive)
		slog.Info("✅ Snapshot archive ready", slog.String("path", cfg.Output.ArchivePath))
	}

	// 4. Engine
	event.Warmup()
	b.Sequencer = engine.NewSequencer(engine.Options{
		Mode:          mode,
		Publisher:     publishers,
		Metrics:       b.Metrics,
		ProgressEvery: cfg.Progress.EveryFrames,
		DumpPath:      "panic_dump.json",
	})

	return nil
}

func (b *Bootstrap) openArchive(mode domain.LedgerMode) (*storage.Archive, error) {
	run := domain.RunRecord{
		RunID:  b.RunID,
		Source: b.source(),
		Mode:   mode.String(),
	}
	if b.Config.Feed.WSURL == "" {
		digest, err := itch.DigestFile(b.Config.Feed.Path)
		if err != nil {
			return nil, fmt.Errorf("digest feed: %w", err)
		}
		run.FeedDigest = digest
	}
	return storage.NewArchive(b.Config.Output.ArchivePath, run)
}

func (b *Bootstrap) source() string {
	if b.Config.Feed.WSURL != "" {
		return b.Config.Feed.WSURL
	}
	return b.Config.Feed.Path
}

// Run opens the configured feed and drives the engine to completion.
func (b *Bootstrap) Run(ctx context.Context) error {
	src, err := b.openSource(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	slog.Info("✅ Feed opened", slog.String("source", b.source()))
	start := time.Now()

	runErr := b.Sequencer.Run(ctx, itch.NewFeed(src))

	m := b.Metrics.Snapshot()
	slog.Info("✨ Run finished",
		slog.String("elapsed", time.Since(start).Round(time.Millisecond).String()),
		slog.String("read", humanize.Bytes(uint64(m.BytesRead))),
		slog.String("frames", humanize.Comma(int64(m.FramesRead))),
		slog.Uint64("applied", m.EventsApplied),
		slog.Uint64("ignored", m.EventsIgnored),
		slog.Uint64("dropped", m.ErrorsTotal),
		slog.Uint64("snapshots", m.Snapshots),
		slog.Int64("resting_bids", m.RestingBids),
		slog.Bool("end_of_messages", b.Sequencer.Ended()))

	if errors.Is(runErr, context.Canceled) {
		slog.Info("👋 Interrupted before end of feed")
	}
	return runErr
}

func (b *Bootstrap) openSource(ctx context.Context) (io.ReadCloser, error) {
	if url := b.Config.Feed.WSURL; url != "" {
		ws, err := itch.DialWebsocket(ctx, url, b.Config.Feed.DialAttempts)
		if err != nil {
			return nil, err
		}
		return ws, nil
	}
	f, err := os.Open(b.Config.Feed.Path)
	if err != nil {
		return nil, &domain.ConfigError{Field: "feed.path", Err: fmt.Errorf("%w: %v", domain.ErrFeedNotFound, err)}
	}
	return f, nil
}

// Close releases the archive connection.
func (b *Bootstrap) Close() error {
	if b.Archive != nil {
		return b.Archive.Close()
	}
	return nil
}
