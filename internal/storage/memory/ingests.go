package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sandevgo/sentinel/internal/core"
)

type ingest struct {
	core.StoredIngest
	tasks     []core.Task
	risk      core.RiskAssessment
	conflicts []core.Conflict
}

// IngestRepo keeps analyses in process memory. Truth versions carried by an
// ingest land in facts under the same lock, so a rejected ingest stores
// neither.
type IngestRepo struct {
	mu      sync.RWMutex
	ingests []ingest
	facts   *FactRepo
	now     func() time.Time
}

// NewIngestRepo returns a repo writing truth versions to facts. facts may be
// nil when no ingest will carry any.
func NewIngestRepo(facts *FactRepo) *IngestRepo {
	return &IngestRepo{facts: facts, now: time.Now}
}

func (r *IngestRepo) SaveIngest(_ context.Context, rec core.IngestRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rec.Facts) > 0 {
		if r.facts == nil {
			return 0, errors.New("failed to save ingest: no fact repo to store truth versions")
		}
		r.facts.mu.Lock()
		defer r.facts.mu.Unlock()
		if err := r.facts.appendLocked(rec.Facts); err != nil {
			return 0, err
		}
	}

	id := int64(len(r.ingests) + 1)
	r.ingests = append(r.ingests, ingest{
		StoredIngest: core.StoredIngest{
			ID:        id,
			RequestID: rec.RequestID,
			Source:    rec.Source,
			Text:      rec.Text,
			CreatedAt: r.now().UTC(),
		},
		tasks:     append([]core.Task(nil), rec.Tasks...),
		risk:      rec.Risk,
		conflicts: append([]core.Conflict(nil), rec.Conflicts...),
	})
	return id, nil
}

// RecentIngests returns up to limit ingests, newest first.
func (r *IngestRepo) RecentIngests(_ context.Context, limit int) ([]core.StoredIngest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []core.StoredIngest{}
	for i := len(r.ingests) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.ingests[i].StoredIngest)
	}
	return out, nil
}

func (r *IngestRepo) LatestRisk(_ context.Context) (*core.StoredRisk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.ingests) == 0 {
		return nil, nil
	}
	last := r.ingests[len(r.ingests)-1]
	return &core.StoredRisk{
		IngestID:  last.ID,
		Score:     last.risk.Score,
		Level:     last.risk.Level,
		Reasons:   append([]string(nil), last.risk.Reasons...),
		CreatedAt: last.CreatedAt,
	}, nil
}

func (r *IngestRepo) TasksForIngest(_ context.Context, ingestID int64) ([]core.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, in := range r.ingests {
		if in.ID == ingestID {
			return append([]core.Task{}, in.tasks...), nil
		}
	}
	return []core.Task{}, nil
}

// RecentConflicts returns up to limit conflicts, newest first.
func (r *IngestRepo) RecentConflicts(_ context.Context, limit int) ([]core.StoredConflict, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []core.StoredConflict{}
	for i := len(r.ingests) - 1; i >= 0; i-- {
		cs := r.ingests[i].conflicts
		for j := len(cs) - 1; j >= 0; j-- {
			if len(out) == limit {
				return out, nil
			}
			out = append(out, core.StoredConflict{Conflict: cs[j], CreatedAt: r.ingests[i].CreatedAt})
		}
	}
	return out, nil
}
