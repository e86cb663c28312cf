package domain

import (
	"context"
)

// SnapshotPublisher receives every VWAP snapshot the engine emits.
// Publish is called synchronously from the engine goroutine.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap Snapshot) error
}

// PublisherFunc adapts a function to SnapshotPublisher
type PublisherFunc func(ctx context.Context, snap Snapshot) error

func (f PublisherFunc) Publish(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}
