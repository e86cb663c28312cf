package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
)

func setupTestArchive(t *testing.T) *Archive {
	dbPath := filepath.Join(t.TempDir(), "data", "archive.db")
	a, err := NewArchive(dbPath, domain.RunRecord{
		RunID:      "run-1",
		Source:     "test.itch",
		FeedDigest: "abc123",
		Mode:       "last",
	})
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() {
		a.Close()
	})
	return a
}

func testSnapshot(label uint64, final bool) domain.Snapshot {
	return domain.Snapshot{
		Label: label,
		Final: final,
		Rows: []domain.VWAPRow{
			{Symbol: "AAPL", VWAP: decimal.RequireFromString("150")},
			{Symbol: "MSFT", VWAP: decimal.RequireFromString("123.4567")},
		},
	}
}

func TestArchive_PublishAndQuery(t *testing.T) {
	a := setupTestArchive(t)
	ctx := context.Background()

	if err := a.Publish(ctx, testSnapshot(9, false)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := a.Publish(ctx, testSnapshot(10, true)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	records, err := a.Snapshots(ctx, "run-1", 9)
	if err != nil {
		t.Fatalf("Snapshots failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	if records[0].Symbol != "AAPL" || records[0].VWAP != "150" || records[0].Final {
		t.Errorf("unexpected record %+v", records[0])
	}
	if records[1].VWAP != "123.4567" || records[1].FeedDigest != "abc123" {
		t.Errorf("unexpected record %+v", records[1])
	}

	final, _ := a.Snapshots(ctx, "run-1", 10)
	if len(final) != 2 || !final[0].Final {
		t.Errorf("expected final rows, got %+v", final)
	}
}

func TestArchive_EmptySnapshot(t *testing.T) {
	a := setupTestArchive(t)
	ctx := context.Background()

	if err := a.Publish(ctx, domain.Snapshot{Label: 3}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	records, err := a.Snapshots(ctx, "run-1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no rows, got %d", len(records))
	}
}

func TestArchive_Runs(t *testing.T) {
	a := setupTestArchive(t)

	runs, err := a.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "run-1" || runs[0].Mode != "last" {
		t.Errorf("unexpected runs %+v", runs)
	}
}

func TestArchive_CloseTwice(t *testing.T) {
	a := setupTestArchive(t)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
