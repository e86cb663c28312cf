package storage

import (
	"context"
	"errors"

	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"
)

// MultiPublisher fans a snapshot out to several publishers in order.
// Every publisher is attempted; failures are joined.
type MultiPublisher []domain.SnapshotPublisher

func (m MultiPublisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
