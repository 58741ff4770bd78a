package core

import (
	"context"
	"time"
)

// FactRepository is the persistence collaborator of the truth store: durable,
// append-only, keyed by string, returned in insertion order.
type FactRepository interface {
	LoadFactHistory(ctx context.Context, key string) ([]Fact, error)
	AppendFact(ctx context.Context, fact Fact) error
	ListFacts(ctx context.Context) ([]Fact, error)
}

// IngestRepository keeps the record of each analysis.
type IngestRepository interface {
	SaveIngest(ctx context.Context, rec IngestRecord) (int64, error)
	RecentIngests(ctx context.Context, limit int) ([]StoredIngest, error)
	LatestRisk(ctx context.Context) (*StoredRisk, error)
	TasksForIngest(ctx context.Context, ingestID int64) ([]Task, error)
	RecentConflicts(ctx context.Context, limit int) ([]StoredConflict, error)
}

// IngestRecord is one analysis. Facts are the truth versions it produced;
// SaveIngest stores them together with the rest or not at all.
type IngestRecord struct {
	RequestID string
	Source    string
	Text      string
	Tasks     []Task
	Risk      RiskAssessment
	Facts     []Fact
	Conflicts []Conflict
}

type StoredIngest struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"time"`
}

type StoredRisk struct {
	IngestID  int64     `json:"ingest_id"`
	Score     int       `json:"score"`
	Level     RiskLevel `json:"level"`
	Reasons   []string  `json:"reasons"`
	CreatedAt time.Time `json:"time"`
}

type StoredConflict struct {
	Conflict
	CreatedAt time.Time `json:"time"`
}
