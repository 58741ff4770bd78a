package core

import "time"

const (
	SentinelName    = "Sentinel"
	SentinelVersion = "0.3.0"

	UserAgent = SentinelName + "/" + SentinelVersion
)

type TaskStatus string

const (
	TaskOpen    TaskStatus = "open"
	TaskBlocked TaskStatus = "blocked"
	TaskDone    TaskStatus = "done"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Fact is one immutable version of a tracked key.
type Fact struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a heuristic action item mined from a clause. Empty optional fields
// mean "not detected".
type Task struct {
	Description string     `json:"description"`
	Owner       string     `json:"owner,omitempty"`
	Status      TaskStatus `json:"status"`
	Deadline    string     `json:"deadline,omitempty"`
	Dependency  string     `json:"dependency,omitempty"`
}

type RiskAssessment struct {
	Score   int       `json:"score"`
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// Conflict is reported when a write disagrees with the latest version of a key.
type Conflict struct {
	Key      string `json:"key"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Question string `json:"question"`
}

// TruthUpdate is a candidate (key, value) pair mined from text.
type TruthUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Briefing struct {
	Situation string         `json:"situation"`
	Risk      RiskAssessment `json:"risk"`
	Tasks     []Task         `json:"tasks"`
	Notify    []string       `json:"notify"`
	Truths    []Fact         `json:"truths,omitempty"`
	Conflicts []Conflict     `json:"conflicts,omitempty"`
	Routing   []string       `json:"routing,omitempty"`
}

type NodeKind string

const (
	NodePerson     NodeKind = "person"
	NodeTask       NodeKind = "task"
	NodeDependency NodeKind = "dependency"
	NodeTruth      NodeKind = "truth"
)

type Relation string

const (
	RelAssignedTo Relation = "assigned_to"
	RelDependsOn  Relation = "depends_on"
	RelReferences Relation = "references"
)

type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label"`
}

type Edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Relation Relation `json:"relation"`
}

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type IngestRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Analysis is everything a single analyze call produces.
type Analysis struct {
	IngestID  int64     `json:"ingest_id"`
	RequestID string    `json:"request_id"`
	Briefing  Briefing  `json:"briefing"`
	Graph     Graph     `json:"graph"`
	CreatedAt time.Time `json:"created_at"`
}
