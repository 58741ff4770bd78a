package tasks

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
)

var (
	// The cue is case-insensitive, the optional surname must be capitalized.
	explicitOwner = regexp.MustCompile(`\b(?i:assigned to|owner is|owner:|owned by|handled by)\s+(@?[\p{L}][\p{L}\p{N}._'-]*(?:\s+\p{Lu}[\p{L}'-]*)?)`)
	handle        = regexp.MustCompile(`(?:^|\s)@([\p{L}][\p{L}\p{N}._-]*)`)
	willDo        = regexp.MustCompile(`\b(\p{Lu}[\p{L}'-]+(?:\s+\p{Lu}[\p{L}'-]+)?)\s+(?:will|was)\s+(.+)$`)

	// Dependencies end where a new thought starts.
	dependencyStop = regexp.MustCompile(`(?i),|\s+(?:until|before|by|so|and then|but)\s+`)
)

type Extractor struct {
	lex *lexicon.Lexicon
}

func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{lex: lex}
}

// Extract returns one task per task-like clause, in input order. Clauses that
// are not tasks but name an owner hand that owner to the closest preceding
// task still without one.
func (e *Extractor) Extract(text string) []core.Task {
	out := []core.Task{}
	for _, clause := range SplitClauses(text) {
		owner := e.owner(clause)

		if !e.isTask(clause) {
			if owner != "" {
				for i := len(out) - 1; i >= 0; i-- {
					if out[i].Owner == "" {
						out[i].Owner = owner
						break
					}
				}
			}
			continue
		}

		desc := e.description(clause)
		if desc == "" {
			continue
		}
		out = append(out, core.Task{
			Description: desc,
			Owner:       owner,
			Status:      e.status(clause),
			Deadline:    e.lex.Deadline(clause),
			Dependency:  e.dependency(clause),
		})
	}
	return out
}

func (e *Extractor) isTask(clause string) bool {
	return e.lex.TaskMarkers.Match(clause) ||
		e.lex.ActionVerbs.Match(clause) ||
		e.lex.Blockers.Match(clause) ||
		e.lex.DependencyCues.Match(clause) ||
		e.lex.DeadlineNouns.Match(clause) ||
		e.committed(clause) != ""
}

// status prefers blocked over done: "fix merged but deploy blocked" is blocked.
func (e *Extractor) status(clause string) core.TaskStatus {
	switch {
	case e.lex.Blockers.Match(clause), e.lex.DependencyCues.Match(clause):
		return core.TaskBlocked
	case e.lex.Completion.Match(clause):
		return core.TaskDone
	default:
		return core.TaskOpen
	}
}

func (e *Extractor) description(clause string) string {
	if loc := e.lex.TaskMarkers.Index(clause); loc != nil && strings.TrimSpace(clause[:loc[0]]) == "" {
		clause = clause[loc[1]:]
	}
	return strings.TrimSpace(clause)
}

func (e *Extractor) dependency(clause string) string {
	loc := e.lex.DependencyCues.Index(clause)
	if loc == nil {
		return ""
	}
	dep := clause[loc[1]:]
	if stop := dependencyStop.FindStringIndex(dep); stop != nil {
		dep = dep[:stop[0]]
	}
	dep = strings.TrimSpace(dep)
	if len(dep) > 4 && strings.EqualFold(dep[:4], "the ") {
		dep = strings.TrimSpace(dep[4:])
	}
	return strings.TrimRight(dep, ",:-")
}

// owner reads an explicit cue first, then a bare @handle, then "<Name> will
// <verb>". Handles keep their "@" wherever they appear.
func (e *Extractor) owner(clause string) string {
	if m := explicitOwner.FindStringSubmatch(clause); m != nil {
		if name := e.person(m[1]); name != "" {
			return name
		}
	}
	if m := handle.FindStringSubmatch(clause); m != nil {
		if name := cleanName(m[1]); name != "" {
			return "@" + name
		}
	}
	if m := willDo.FindStringSubmatch(clause); m != nil {
		if name := e.person(m[1]); name != "" && e.lex.ActionVerbs.Match(m[2]) {
			return name
		}
	}
	return e.committed(clause)
}

// committed returns the name in "<Name> will handle|coordinate|own|lead ...".
// Such a clause is a task even without an action verb.
func (e *Extractor) committed(clause string) string {
	m := willDo.FindStringSubmatch(clause)
	if m == nil || !e.lex.OwnershipVerbs.Match(m[2]) {
		return ""
	}
	return e.person(m[1])
}

// person turns a captured name into an owner. Filler, date and pronoun words
// around the name are dropped ("Then Sana", "Ali Friday"); a handle stays a
// single "@name" token.
func (e *Extractor) person(raw string) string {
	if strings.HasPrefix(raw, "@") {
		name := cleanName(strings.Fields(raw)[0][1:])
		if !e.isName(name) {
			return ""
		}
		return "@" + name
	}

	words := strings.Fields(raw)
	for i := range words {
		words[i] = cleanName(words[i])
	}
	for len(words) > 0 && (e.lex.NameFillers.Match(words[0]) || e.notName(words[0])) {
		words = words[1:]
	}
	for len(words) > 0 && e.notName(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ")
}

func (e *Extractor) notName(word string) bool {
	return !e.isName(word) || e.lex.Deadline(word) != ""
}

func (e *Extractor) isName(s string) bool {
	return s != "" && !e.lex.NotOwners.Match(s)
}

func cleanName(s string) string {
	return strings.TrimRight(s, "._-'")
}

// SplitClauses cuts text on sentence punctuation, semicolons and newlines.
// A period between two digits ("v1.2") does not end a clause. Leading list
// bullets are dropped.
func SplitClauses(text string) []string {
	var (
		clauses []string
		b       strings.Builder
	)
	flush := func() {
		c := strings.TrimSpace(b.String())
		c = strings.TrimSpace(strings.TrimLeft(c, "-*•>"))
		if c != "" {
			clauses = append(clauses, c)
		}
		b.Reset()
	}

	for i, r := range text {
		switch r {
		case '!', '?', ';', '\n':
			flush()
			continue
		case '.':
			if digitBefore(text, i) && digitAfter(text, i) {
				b.WriteRune(r)
				continue
			}
			flush()
			continue
		}
		b.WriteRune(r)
	}
	flush()
	return clauses
}

func digitBefore(s string, i int) bool {
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsDigit(r)
}

func digitAfter(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i+1:])
	return unicode.IsDigit(r)
}
