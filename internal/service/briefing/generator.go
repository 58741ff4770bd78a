package briefing

import (
	"context"
	"strings"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/pkg/log"
)

// Truncator bounds the situation text. *token.Truncator is the production
// implementation.
type Truncator interface {
	Truncate(text string) (string, error)
}

// Generator composes analysis outputs into a Briefing. It does no analysis
// of its own.
type Generator struct {
	truncator Truncator
}

// NewGenerator takes an optional truncator bounding the situation text; nil
// keeps the input verbatim.
func NewGenerator(truncator Truncator) *Generator {
	return &Generator{truncator: truncator}
}

func (g *Generator) Generate(ctx context.Context, text string, risk core.RiskAssessment, tasks []core.Task, conflicts []core.Conflict) core.Briefing {
	situation := strings.TrimSpace(text)
	if g.truncator != nil {
		// The returned text is a usable fallback even when err is set.
		cut, err := g.truncator.Truncate(situation)
		if err != nil {
			log.FromCtx(ctx).Debug().Err(err).Msg("situation truncated by word count")
		}
		situation = cut
	}

	if tasks == nil {
		tasks = []core.Task{}
	}
	if risk.Reasons == nil {
		risk.Reasons = []string{}
	}

	return core.Briefing{
		Situation: situation,
		Risk:      risk,
		Tasks:     tasks,
		Notify:    Notify(tasks),
		Conflicts: conflicts,
	}
}

// Notify lists the distinct non-empty task owners in first-seen order.
func Notify(tasks []core.Task) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, t := range tasks {
		if t.Owner == "" || seen[t.Owner] {
			continue
		}
		seen[t.Owner] = true
		out = append(out, t.Owner)
	}
	return out
}
