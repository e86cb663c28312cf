package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
	"github.com/cerdo03/VWAP-NASDAQ/internal/event"
	"github.com/cerdo03/VWAP-NASDAQ/internal/infra/itch/itchtest"
	"github.com/cerdo03/VWAP-NASDAQ/pkg/quant"
)

const hour = quant.NanosPerHour

func writeConfig(t *testing.T, dir, archive string) string {
	t.Helper()
	content := fmt.Sprintf(`
output:
  dir: %s
  archive_path: %q
logging:
  level: error
  dir: %s
`, filepath.Join(dir, "out"), archive, filepath.Join(dir, "logs"))
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFeed(t *testing.T, dir string) string {
	t.Helper()
	stream := itchtest.Stream(
		itchtest.SystemEvent(hour, event.SysStartOfMessages),
		itchtest.StockDirectory(1, "AAPL"),
		itchtest.StockDirectory(2, "MSFT"),
		itchtest.AddOrder(1, 9*hour, 100, event.SideBuy, 500, "AAPL", 1_500_000),
		itchtest.OrderExecuted(1, 9*hour+1, 100, 200, 1),
		itchtest.Trade(2, 9*hour+2, event.SideBuy, 10, "MSFT", 1_234_567, 2),
		itchtest.AddOrder(1, 10*hour+3, 101, event.SideBuy, 100, "AAPL", 1_510_000),
		itchtest.OrderExecutedWithPrice(1, 10*hour+4, 101, 100, 3, 'Y', 1_520_000),
		itchtest.SystemEvent(16*hour, event.SysEndOfMessages),
		itchtest.AddOrder(1, 17*hour, 102, event.SideBuy, 100, "AAPL", 1),
	)
	path := filepath.Join(dir, "feed.itch")
	if err := os.WriteFile(path, stream, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBootstrap_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "archive.db")

	b := NewBootstrap()
	if err := b.Initialize(writeConfig(t, dir, archivePath), writeFeed(t, dir)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer b.Close()

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 9h is the first clock reading, so its window closes before any execution.
	want := map[string]string{
		"9.txt":  "",
		"10.txt": "AAPL 150.0\nMSFT 123.4567\n",
		"16.txt": "AAPL 152.0\nMSFT 123.4567\n",
	}
	for name, content := range want {
		got, err := os.ReadFile(filepath.Join(dir, "out", name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		if string(got) != content {
			t.Errorf("%s: expected %q, got %q", name, content, string(got))
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "17.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("frames after end of messages must not produce output")
	}

	records, err := b.Archive.Snapshots(context.Background(), b.RunID, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || !records[0].Final || records[0].FeedDigest == "" {
		t.Errorf("unexpected archive rows %+v", records)
	}

	m := b.Metrics.Snapshot()
	if m.Snapshots != 3 || m.FramesRead != 9 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestBootstrap_MissingFeed(t *testing.T) {
	dir := t.TempDir()

	b := NewBootstrap()
	err := b.Initialize(writeConfig(t, dir, ""), filepath.Join(dir, "missing.itch"))

	var ce *domain.ConfigError
	if !errors.As(err, &ce) || !errors.Is(err, domain.ErrFeedNotFound) {
		t.Fatalf("expected fatal ConfigError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("no output should be created before the feed is validated")
	}
}
