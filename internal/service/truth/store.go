package truth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/pkg/log"
)

// Store is the append-only versioned key/value store. Versions of a key start
// at 1 and grow by one per accepted write. The store does not lock: callers
// that write concurrently must serialize per key.
type Store struct {
	repo     core.FactRepository
	detector *Detector
	now      func() time.Time
}

func NewStore(repo core.FactRepository) *Store {
	s := &Store{
		repo: repo,
		now:  time.Now,
	}
	s.detector = NewDetector(s)
	return s
}

func (s *Store) GetLatest(ctx context.Context, key string) (core.Fact, error) {
	hist, err := s.GetHistory(ctx, key)
	if err != nil {
		return core.Fact{}, err
	}
	if len(hist) == 0 {
		return core.Fact{}, fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
	}
	return hist[len(hist)-1], nil
}

// GetHistory returns all versions of key, oldest first. A key never written
// yields an empty slice.
func (s *Store) GetHistory(ctx context.Context, key string) ([]core.Fact, error) {
	hist, err := s.repo.LoadFactHistory(ctx, key)
	if err != nil {
		return nil, storageErr("load fact history", err)
	}
	if hist == nil {
		hist = []core.Fact{}
	}
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Version < hist[j].Version })
	return hist, nil
}

// Prepare computes what Write would store for key without storing it. fresh
// is false when value equals the latest version under Normalize; fact is then
// that latest version. Otherwise fact is the next version and conflict, if
// any, names the value it replaces.
func (s *Store) Prepare(ctx context.Context, key, value string) (fact core.Fact, conflict *core.Conflict, fresh bool, err error) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return core.Fact{}, nil, false, fmt.Errorf("%w: key and value are required", core.ErrInvalidInput)
	}

	hist, err := s.GetHistory(ctx, key)
	if err != nil {
		return core.Fact{}, nil, false, err
	}

	version := 1
	if n := len(hist); n > 0 {
		latest := hist[n-1]
		conflict = s.detector.Against(latest, value)
		if conflict == nil {
			return latest, nil, false, nil
		}
		version = latest.Version + 1
	}

	return core.Fact{
		Key:       key,
		Value:     value,
		Version:   version,
		CreatedAt: s.now().UTC(),
	}, conflict, true, nil
}

// Append stores a fact produced by Prepare.
func (s *Store) Append(ctx context.Context, fact core.Fact) error {
	if err := s.repo.AppendFact(ctx, fact); err != nil {
		return storageErr("append fact", err)
	}
	return nil
}

// Write appends value as the next version of key. A value equal to the
// latest one under Normalize is a no-op: the latest fact comes back with no
// conflict. Any other write over an existing key also returns the conflict
// with the value it replaced.
func (s *Store) Write(ctx context.Context, key, value string) (core.Fact, *core.Conflict, error) {
	fact, conflict, fresh, err := s.Prepare(ctx, key, value)
	if err != nil || !fresh {
		return fact, nil, err
	}
	if err := s.Append(ctx, fact); err != nil {
		return core.Fact{}, nil, err
	}

	log.FromCtx(ctx).Debug().
		Str("key", fact.Key).
		Int("version", fact.Version).
		Bool("conflict", conflict != nil).
		Msg("truth written")

	return fact, conflict, nil
}

// Latest returns the current version of every key, ordered by key.
func (s *Store) Latest(ctx context.Context) ([]core.Fact, error) {
	all, err := s.repo.ListFacts(ctx)
	if err != nil {
		return nil, storageErr("list facts", err)
	}

	latest := make(map[string]core.Fact)
	for _, f := range all {
		if cur, ok := latest[f.Key]; !ok || f.Version > cur.Version {
			latest[f.Key] = f
		}
	}

	out := make([]core.Fact, 0, len(latest))
	for _, f := range latest {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Timeline groups every stored version by key, oldest first.
func (s *Store) Timeline(ctx context.Context) (map[string][]core.Fact, error) {
	all, err := s.repo.ListFacts(ctx)
	if err != nil {
		return nil, storageErr("list facts", err)
	}

	out := make(map[string][]core.Fact)
	for _, f := range all {
		out[f.Key] = append(out[f.Key], f)
	}
	for k := range out {
		hist := out[k]
		sort.SliceStable(hist, func(i, j int) bool { return hist[i].Version < hist[j].Version })
	}
	return out, nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, core.ErrStorageUnavailable) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, core.ErrStorageUnavailable, err)
}
