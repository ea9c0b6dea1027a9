package fleet

import (
	"context"

	"github.com/kilianp07/fleetops/core/model"
)

// Provider fetches a consistent fleet snapshot.
type Provider interface {
	Snapshot(ctx context.Context) (model.Snapshot, error)
}

// StaticProvider serves a fixed snapshot.
type StaticProvider struct {
	Snap model.Snapshot
}

// Snapshot returns the fixed snapshot.
func (p StaticProvider) Snapshot(ctx context.Context) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	return p.Snap, nil
}
