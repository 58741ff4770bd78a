package lexicon

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Terms is a set of trigger phrases matched case-insensitively. Word
// boundaries are enforced on whichever ends of a phrase are word characters,
// so "eod" does not fire inside "geode" while "task:" still matches "Task: x".
//
// A phrase written with a leading "!" is an exception: a match lying inside
// it does not count, so "due", "!due to" fires on "due Friday" but not on
// "late due to vendor issues".
type Terms struct {
	list []string
	re   *regexp.Regexp
	not  *regexp.Regexp
}

func NewTerms(words ...string) Terms {
	t := Terms{}
	var match, except []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		neg := strings.HasPrefix(w, "!")
		if neg {
			w = strings.TrimSpace(w[1:])
		}
		if w == "" {
			continue
		}
		if neg {
			t.list = append(t.list, "!"+w)
			except = append(except, w)
		} else {
			t.list = append(t.list, w)
			match = append(match, w)
		}
	}
	t.re = compile(match)
	t.not = compile(except)
	return t
}

func compile(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}

	// Longest first so "end of day" wins over a shorter overlapping phrase.
	sorted := append([]string(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	parts := make([]string, 0, len(sorted))
	for _, w := range sorted {
		p := regexp.QuoteMeta(w)
		p = strings.ReplaceAll(p, " ", `\s+`)
		if isWordRune(firstRune(w)) {
			p = `\b` + p
		}
		if isWordRune(lastRune(w)) {
			p += `\b`
		}
		parts = append(parts, p)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

// List returns the phrases as given, exceptions with their "!" prefix.
func (t Terms) List() []string {
	return append([]string(nil), t.list...)
}

func (t Terms) Empty() bool {
	return t.re == nil
}

func (t Terms) Match(s string) bool {
	return t.Index(s) != nil
}

// Index returns the [start, end) byte span of the leftmost match that no
// exception covers, or nil.
func (t Terms) Index(s string) []int {
	if t.re == nil {
		return nil
	}
	if t.not == nil {
		return t.re.FindStringIndex(s)
	}

	skip := t.not.FindAllStringIndex(s, -1)
	for _, loc := range t.re.FindAllStringIndex(s, -1) {
		if !covered(loc, skip) {
			return loc
		}
	}
	return nil
}

func (t Terms) Find(s string) string {
	loc := t.Index(s)
	if loc == nil {
		return ""
	}
	return s[loc[0]:loc[1]]
}

func covered(loc []int, spans [][]int) bool {
	for _, sp := range spans {
		if loc[0] >= sp[0] && loc[1] <= sp[1] {
			return true
		}
	}
	return false
}

func (t Terms) MarshalYAML() (interface{}, error) {
	return t.list, nil
}

func (t *Terms) UnmarshalYAML(node *yaml.Node) error {
	var words []string
	if err := node.Decode(&words); err != nil {
		return err
	}
	*t = NewTerms(words...)
	return nil
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	r := []rune(s)
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}
