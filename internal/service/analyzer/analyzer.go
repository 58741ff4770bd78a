package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/briefing"
	"github.com/sandevgo/sentinel/internal/service/graph"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
	"github.com/sandevgo/sentinel/internal/service/risk"
	"github.com/sandevgo/sentinel/internal/service/tasks"
	"github.com/sandevgo/sentinel/internal/service/truth"
	"github.com/sandevgo/sentinel/pkg/log"
	"github.com/sandevgo/sentinel/pkg/token"
)

const DefaultSource = "cli"

// Analyzer runs one text through every component and records the result.
// Calls are serialized so that truth versions stay gap-free when several
// transports share one store.
type Analyzer struct {
	mu sync.Mutex

	lex       *lexicon.Lexicon
	scorer    *risk.Scorer
	extractor *tasks.Extractor
	store     *truth.Store
	briefer   *briefing.Generator
	graph     *graph.Builder
	ingests   core.IngestRepository

	now func() time.Time
}

// NewAnalyzer wires the components. ingests must persist IngestRecord.Facts
// to the repository behind store. It may be nil, in which case analyses are
// not recorded and truth versions are appended to store directly.
func NewAnalyzer(lex *lexicon.Lexicon, store *truth.Store, ingests core.IngestRepository, truncator *token.Truncator) *Analyzer {
	if lex == nil {
		lex = lexicon.Default()
	}
	var briefer *briefing.Generator
	if truncator != nil {
		briefer = briefing.NewGenerator(truncator)
	} else {
		briefer = briefing.NewGenerator(nil)
	}
	return &Analyzer{
		lex:       lex,
		scorer:    risk.NewScorer(lex),
		extractor: tasks.NewExtractor(lex),
		store:     store,
		briefer:   briefer,
		graph:     graph.NewBuilder(lex),
		ingests:   ingests,
		now:       time.Now,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, req core.IngestRequest) (*core.Analysis, error) {
	if err := validate(req.Text); err != nil {
		return nil, err
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = DefaultSource
	}

	requestID := uuid.NewString()
	ctx = log.WithFields(ctx, "request_id", requestID, "source", source)
	logger := log.FromCtx(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	found := a.extractor.Extract(req.Text)
	assessment := a.scorer.AssessWithTasks(req.Text, found)

	var (
		facts     []core.Fact
		pending   []core.Fact
		conflicts []core.Conflict
	)
	for _, u := range truth.ExtractTruths(a.lex, req.Text) {
		fact, conflict, fresh, err := a.store.Prepare(ctx, u.Key, u.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to record truth %q: %w", u.Key, err)
		}
		facts = append(facts, fact)
		if fresh {
			pending = append(pending, fact)
		}
		if conflict != nil {
			logger.Warn().Str("key", conflict.Key).Str("old", conflict.OldValue).Str("new", conflict.NewValue).Msg("truth conflict")
			conflicts = append(conflicts, *conflict)
		}
	}

	b := a.briefer.Generate(ctx, req.Text, assessment, found, conflicts)
	b.Truths = facts
	b.Routing = a.lex.Route(req.Text)

	// Truth versions are stored with the ingest so that a failed save leaves
	// history untouched and a retry sees the same conflicts.
	var ingestID int64
	if a.ingests != nil {
		id, err := a.ingests.SaveIngest(ctx, core.IngestRecord{
			RequestID: requestID,
			Source:    source,
			Text:      req.Text,
			Tasks:     found,
			Risk:      assessment,
			Facts:     pending,
			Conflicts: conflicts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save ingest: %w", wrapStorage(err))
		}
		ingestID = id
	} else {
		for _, f := range pending {
			if err := a.store.Append(ctx, f); err != nil {
				return nil, fmt.Errorf("failed to record truth %q: %w", f.Key, err)
			}
		}
	}

	tracked, err := a.store.Latest(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("ingest_id", ingestID).
		Int("score", assessment.Score).
		Str("level", string(assessment.Level)).
		Int("tasks", len(found)).
		Int("conflicts", len(conflicts)).
		Msg("analysis complete")

	return &core.Analysis{
		IngestID:  ingestID,
		RequestID: requestID,
		Briefing:  b,
		Graph:     a.graph.Build(found, tracked),
		CreatedAt: a.now().UTC(),
	}, nil
}

func validate(text string) error {
	switch {
	case strings.TrimSpace(text) == "":
		return fmt.Errorf("%w: text is empty", core.ErrInvalidInput)
	case !utf8.ValidString(text), strings.ContainsRune(text, 0):
		return fmt.Errorf("%w: text is not plain UTF-8 text", core.ErrInvalidInput)
	}
	return nil
}

func wrapStorage(err error) error {
	if errors.Is(err, core.ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
}
