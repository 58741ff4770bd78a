package risk

import (
	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
)

const (
	MaxScore = 100

	// Upper bounds, inclusive, of the LOW and MEDIUM bands.
	lowMax    = 33
	mediumMax = 66
)

type Scorer struct {
	lex *lexicon.Lexicon
}

func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scorer{lex: lex}
}

// Assess walks the risk categories in table order. A category contributes its
// weight and reason at most once however many of its terms appear.
func (s *Scorer) Assess(text string) core.RiskAssessment {
	score := 0
	reasons := []string{}
	for _, c := range s.lex.Risk {
		if c.Terms.Match(text) {
			score += c.Weight
			reasons = append(reasons, c.Reason)
		}
	}
	return build(score, reasons)
}

// AssessWithTasks adds the unowned-work signal on top of Assess when tasks
// were found and none of them has an owner.
func (s *Scorer) AssessWithTasks(text string, tasks []core.Task) core.RiskAssessment {
	ra := s.Assess(text)
	if len(tasks) == 0 || anyOwned(tasks) {
		return ra
	}
	return build(ra.Score+s.lex.UnownedTasks.Weight, append(ra.Reasons, s.lex.UnownedTasks.Reason))
}

func Level(score int) core.RiskLevel {
	switch {
	case score <= lowMax:
		return core.RiskLow
	case score <= mediumMax:
		return core.RiskMedium
	default:
		return core.RiskHigh
	}
}

func build(score int, reasons []string) core.RiskAssessment {
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return core.RiskAssessment{
		Score:   score,
		Level:   Level(score),
		Reasons: reasons,
	}
}

func anyOwned(tasks []core.Task) bool {
	for _, t := range tasks {
		if t.Owner != "" {
			return true
		}
	}
	return false
}
