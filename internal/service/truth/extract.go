package truth

import (
	"regexp"
	"strings"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
	"github.com/sandevgo/sentinel/internal/service/tasks"
)

const (
	KeyLaunchDate     = "launch_date"
	KeyPriority       = "priority"
	KeyDecisionStatus = "decision_status"
	KeyScope          = "scope"
	KeyDeadline       = "deadline"

	ValueUpdated = "UPDATED"
	ValueChanged = "CHANGED"
)

var priority = regexp.MustCompile(`(?i)\bpriority\s*(?:is|:|=|->|to)?\s*(p[0-4]|critical|high|medium|low)\b`)

// ExtractTruths mines candidate facts from text clause by clause. When a key
// shows up more than once the last value wins, while the key keeps the
// position of its first mention.
func ExtractTruths(lex *lexicon.Lexicon, text string) []core.TruthUpdate {
	if lex == nil {
		lex = lexicon.Default()
	}

	var out []core.TruthUpdate
	pos := make(map[string]int)
	set := func(key, value string) {
		if value == "" {
			return
		}
		if i, ok := pos[key]; ok {
			out[i].Value = value
			return
		}
		pos[key] = len(out)
		out = append(out, core.TruthUpdate{Key: key, Value: value})
	}

	for _, clause := range tasks.SplitClauses(text) {
		if lex.LaunchCues.Match(clause) {
			day := lexicon.Weekday(clause)
			if day == "" {
				day = lex.Deadline(clause)
			}
			set(KeyLaunchDate, day)
		}
		if m := priority.FindStringSubmatch(clause); m != nil {
			set(KeyPriority, strings.ToUpper(m[1]))
		}
		if lex.DecisionCues.Match(clause) {
			set(KeyDecisionStatus, ValueUpdated)
		}
		if lex.ScopeCues.Match(clause) && lex.ChangeCues.Match(clause) {
			set(KeyScope, ValueChanged)
		}
		if lex.DeadlineNouns.Match(clause) {
			set(KeyDeadline, lex.Deadline(clause))
		}
	}
	return out
}
