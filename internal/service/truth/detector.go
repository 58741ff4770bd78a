package truth

import (
	"context"
	"errors"

	"github.com/sandevgo/sentinel/internal/core"
)

type LatestReader interface {
	GetLatest(ctx context.Context, key string) (core.Fact, error)
}

// Detector answers whether a candidate value would contradict the current
// truth without writing anything.
type Detector struct {
	store LatestReader
}

func NewDetector(store LatestReader) *Detector {
	return &Detector{store: store}
}

// Check returns nil when key is unknown or newValue matches the latest value.
func (d *Detector) Check(ctx context.Context, key, newValue string) (*core.Conflict, error) {
	latest, err := d.store.GetLatest(ctx, key)
	if errors.Is(err, core.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d.Against(latest, newValue), nil
}

// Against compares newValue with an already loaded latest fact.
func (d *Detector) Against(latest core.Fact, newValue string) *core.Conflict {
	if Same(latest.Value, newValue) {
		return nil
	}
	return NewConflict(latest.Key, latest.Value, newValue)
}
