package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/sentinel/internal/core"
)

const (
	snapshotConflicts = 10
	snapshotIngests   = 50
	digestConflicts   = 5
	digestUpdates     = 5

	Hint = "Try: What changed today?"
)

var digestCues = []string{"changed", "today", "digest"}

type truths interface {
	Latest(ctx context.Context) ([]core.Fact, error)
	Timeline(ctx context.Context) (map[string][]core.Fact, error)
}

// Snapshot is the current picture of the organisation.
type Snapshot struct {
	OrgID        int64                  `json:"org_id"`
	LatestTruths []core.Fact            `json:"latest_truths"`
	Timeline     map[string][]core.Fact `json:"truth_timeline"`
	LatestRisk   *core.StoredRisk       `json:"latest_risk"`
	Conflicts    []core.StoredConflict  `json:"conflicts"`
	LatestTasks  []core.Task            `json:"latest_tasks"`
	History      []core.StoredIngest    `json:"history"`
}

type Digest struct {
	LatestRisk    *core.StoredRisk      `json:"latest_risk"`
	Truths        []core.Fact           `json:"truths"`
	Conflicts     []core.StoredConflict `json:"conflicts"`
	RecentUpdates []core.StoredIngest   `json:"recent_updates"`
}

// Answer carries either a digest or a hint for questions it cannot answer.
type Answer struct {
	Digest *Digest `json:"digest,omitempty"`
	Hint   string  `json:"hint,omitempty"`
}

type Service struct {
	orgID   int64
	truths  truths
	ingests core.IngestRepository
}

func NewService(orgID int64, truths truths, ingests core.IngestRepository) *Service {
	return &Service{
		orgID:   orgID,
		truths:  truths,
		ingests: ingests,
	}
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	latest, err := s.truths.Latest(ctx)
	if err != nil {
		return nil, err
	}
	timeline, err := s.truths.Timeline(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		OrgID:        s.orgID,
		LatestTruths: latest,
		Timeline:     timeline,
		Conflicts:    []core.StoredConflict{},
		LatestTasks:  []core.Task{},
		History:      []core.StoredIngest{},
	}
	if s.ingests == nil {
		return snap, nil
	}

	if snap.LatestRisk, err = s.ingests.LatestRisk(ctx); err != nil {
		return nil, fmt.Errorf("failed to load latest risk: %w", err)
	}
	if snap.Conflicts, err = s.ingests.RecentConflicts(ctx, snapshotConflicts); err != nil {
		return nil, fmt.Errorf("failed to load conflicts: %w", err)
	}
	if snap.History, err = s.ingests.RecentIngests(ctx, snapshotIngests); err != nil {
		return nil, fmt.Errorf("failed to load ingests: %w", err)
	}
	if len(snap.History) > 0 {
		if snap.LatestTasks, err = s.ingests.TasksForIngest(ctx, snap.History[0].ID); err != nil {
			return nil, fmt.Errorf("failed to load tasks: %w", err)
		}
	}
	return snap, nil
}

// Ask answers "what changed" style questions with a digest of the snapshot.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	q := strings.ToLower(question)
	asked := false
	for _, cue := range digestCues {
		if strings.Contains(q, cue) {
			asked = true
			break
		}
	}
	if !asked {
		return &Answer{Hint: Hint}, nil
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Answer{Digest: &Digest{
		LatestRisk:    snap.LatestRisk,
		Truths:        snap.LatestTruths,
		Conflicts:     head(snap.Conflicts, digestConflicts),
		RecentUpdates: head(snap.History, digestUpdates),
	}}, nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
