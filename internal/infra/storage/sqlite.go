package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Archive persists every published snapshot row to SQLite.
type Archive struct {
	db     *gorm.DB
	run    domain.RunRecord
	closed bool
}

var _ domain.SnapshotPublisher = (*Archive)(nil)

// NewArchive opens (or creates) the archive at dbPath and registers run.
func NewArchive(dbPath string, run domain.RunRecord) (*Archive, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.RunRecord{}, &domain.SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.Save(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to register run: %w", err)
	}

	return &Archive{db: db, run: run}, nil
}

// Publish stores all rows of snap in one transaction.
func (a *Archive) Publish(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Rows) == 0 {
		return nil
	}

	records := make([]domain.SnapshotRecord, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		records = append(records, domain.SnapshotRecord{
			RunID:      a.run.RunID,
			FeedDigest: a.run.FeedDigest,
			Label:      snap.Label,
			Symbol:     row.Symbol,
			VWAP:       row.VWAP.String(),
			Final:      snap.Final,
		})
	}

	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// Snapshots returns the archived rows of a run for label, ordered by symbol.
func (a *Archive) Snapshots(ctx context.Context, runID string, label uint64) ([]domain.SnapshotRecord, error) {
	var records []domain.SnapshotRecord
	err := a.db.WithContext(ctx).
		Where("run_id = ? AND label = ?", runID, label).
		Order("symbol").
		Find(&records).Error
	return records, err
}

// Runs returns every registered run, oldest first.
func (a *Archive) Runs(ctx context.Context) ([]domain.RunRecord, error) {
	var runs []domain.RunRecord
	err := a.db.WithContext(ctx).Order("created_at").Find(&runs).Error
	return runs, err
}

// Close releases the underlying connection.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
