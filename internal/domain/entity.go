package domain

import (
	"time"
)

// SnapshotRecord is one archived VWAP row.
type SnapshotRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"index:idx_run_label" json:"run_id"`
	FeedDigest string    `gorm:"index" json:"feed_digest"` // BLAKE3 of the input file, empty for live feeds
	Label      uint64    `gorm:"index:idx_run_label" json:"label"`
	Symbol     string    `json:"symbol"`
	VWAP       string    `json:"vwap"` // exact decimal text
	Final      bool      `json:"final"`
	CreatedAt  time.Time `json:"created_at"`
}

// RunRecord describes one decoding run.
type RunRecord struct {
	RunID      string    `gorm:"primaryKey" json:"run_id"`
	Source     string    `json:"source"`
	FeedDigest string    `json:"feed_digest"`
	Mode       string    `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
}
