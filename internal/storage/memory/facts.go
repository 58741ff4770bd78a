package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sandevgo/sentinel/internal/core"
)

// FactRepo keeps truth history in process memory. It is the collaborator for
// SENTINEL_STORAGE=memory and for tests.
type FactRepo struct {
	mu    sync.RWMutex
	facts map[string][]core.Fact
}

func NewFactRepo() *FactRepo {
	return &FactRepo{facts: make(map[string][]core.Fact)}
}

func (r *FactRepo) LoadFactHistory(_ context.Context, key string) ([]core.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]core.Fact(nil), r.facts[key]...), nil
}

// AppendFact rejects a version that does not directly follow the stored
// history, the same way the sqlite UNIQUE(org_id, key, version) does.
func (r *FactRepo) AppendFact(_ context.Context, fact core.Fact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.appendLocked([]core.Fact{fact})
}

// appendLocked stores all facts or none. Callers hold r.mu.
func (r *FactRepo) appendLocked(facts []core.Fact) error {
	next := make(map[string]int, len(facts))
	for _, f := range facts {
		want, ok := next[f.Key]
		if !ok {
			want = len(r.facts[f.Key]) + 1
		}
		if f.Version != want {
			return fmt.Errorf("failed to append fact %q v%d: %w: expected version %d", f.Key, f.Version, core.ErrStorageUnavailable, want)
		}
		next[f.Key] = want + 1
	}
	for _, f := range facts {
		r.facts[f.Key] = append(r.facts[f.Key], f)
	}
	return nil
}

// ListFacts returns every stored version ordered by key, then version.
func (r *FactRepo) ListFacts(_ context.Context) ([]core.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.facts))
	for k := range r.facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []core.Fact
	for _, k := range keys {
		out = append(out, r.facts[k]...)
	}
	return out, nil
}
