package lexicon

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one row of the risk trigger table: any term present in the text
// adds Weight to the score and Reason to the reasons list, once.
type Category struct {
	Name   string `yaml:"name"`
	Terms  Terms  `yaml:"terms"`
	Weight int    `yaml:"weight"`
	Reason string `yaml:"reason"`
}

// DeadlineRule maps trigger terms to the label stored on a task.
type DeadlineRule struct {
	Terms Terms  `yaml:"terms"`
	Label string `yaml:"label"`
}

type TeamRoute struct {
	Terms Terms  `yaml:"terms"`
	Role  string `yaml:"role"`
}

// Lexicon holds every trigger table used by the analyzers. Tables are data,
// the packages that consume them iterate them in order.
type Lexicon struct {
	Risk         []Category `yaml:"risk"`
	UnownedTasks Category   `yaml:"unowned_tasks"`

	TaskMarkers    Terms          `yaml:"task_markers"`
	ActionVerbs    Terms          `yaml:"action_verbs"`
	OwnershipVerbs Terms          `yaml:"ownership_verbs"`
	DeadlineNouns  Terms          `yaml:"deadline_nouns"`
	Blockers       Terms          `yaml:"blockers"`
	DependencyCues Terms          `yaml:"dependency_cues"`
	Completion     Terms          `yaml:"completion"`
	Deadlines      []DeadlineRule `yaml:"deadlines"`
	NotOwners      Terms          `yaml:"not_owners"`
	NameFillers    Terms          `yaml:"name_fillers"`

	LaunchCues   Terms `yaml:"launch_cues"`
	DecisionCues Terms `yaml:"decision_cues"`
	ScopeCues    Terms `yaml:"scope_cues"`
	ChangeCues   Terms `yaml:"change_cues"`

	Teams          []TeamRoute `yaml:"teams"`
	EscalationCues Terms       `yaml:"escalation_cues"`
	EscalationRole string      `yaml:"escalation_role"`

	// KeySubjects lists the words that make a task reference a truth key.
	KeySubjects map[string]Terms `yaml:"key_subjects"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekdayTerms = func() []Terms {
	out := make([]Terms, len(weekdays))
	for i, day := range weekdays {
		out[i] = NewTerms(day)
	}
	return out
}()

var monthDay = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)

func Default() *Lexicon {
	l := &Lexicon{
		Risk: []Category{
			{
				Name:   "blocker",
				Terms:  NewTerms("blocked", "blocker", "blocking", "stuck", "waiting on", "waiting for", "depends on", "dependent on", "on hold"),
				Weight: 35,
				Reason: "Blocker detected",
			},
			{
				Name:   "ambiguity",
				Terms:  NewTerms("unclear", "not sure", "unsure", "unknown", "needs confirmation", "tbd", "tbc"),
				Weight: 20,
				Reason: "Ambiguity signal (unclear/unknown)",
			},
			{
				Name:   "deadline",
				Terms:  NewTerms("deadline", "submission", "submit", "due", "!due to", "!due diligence"),
				Weight: 15,
				Reason: "Deadline / submission mentioned",
			},
			{
				Name:   "near_term",
				Terms:  NewTerms("today", "tomorrow", "tonight", "eod", "end of day", "asap"),
				Weight: 20,
				Reason: "Very near-term deadline (today/tomorrow/EOD)",
			},
			{
				Name:   "missing_owner",
				Terms:  NewTerms("unassigned", "no owner", "nobody owns", "who owns", "owner unknown"),
				Weight: 10,
				Reason: "Owner not identified",
			},
		},
		UnownedTasks: Category{
			Name:   "unowned_tasks",
			Weight: 10,
			Reason: "Tasks present but owner not identified",
		},

		TaskMarkers: NewTerms("task:", "todo:", "to do:", "action item:", "action:"),
		ActionVerbs: NewTerms(
			"resolve", "prepare", "submit", "deliver", "fix", "finish", "complete", "review",
			"deploy", "ship", "launch", "release", "update", "write", "build", "test", "send",
			"schedule", "confirm", "draft", "migrate", "implement", "investigate", "follow up",
			"need to", "needs to", "must", "should",
		),
		OwnershipVerbs: NewTerms("handle", "coordinate", "own", "lead", "drive"),
		DeadlineNouns:  NewTerms("deadline", "due", "!due to", "!due diligence"),
		Blockers:       NewTerms("blocked", "blocker", "blocking", "stuck", "waiting on", "waiting for", "depends on", "dependent on", "on hold"),
		DependencyCues: NewTerms("waiting on", "waiting for", "blocked by", "blocked on", "depends on", "dependent on"),
		Completion:     NewTerms("done", "completed", "finished", "shipped", "resolved", "merged", "fixed", "closed"),
		Deadlines: []DeadlineRule{
			{Terms: NewTerms("today"), Label: "Today"},
			{Terms: NewTerms("tonight"), Label: "Tonight"},
			{Terms: NewTerms("tomorrow"), Label: "Tomorrow"},
			{Terms: NewTerms("eod", "end of day"), Label: "EOD"},
			{Terms: NewTerms("eow", "end of week"), Label: "End of week"},
			{Terms: NewTerms("next week"), Label: "Next week"},
		},
		NotOwners: NewTerms(
			"i", "we", "you", "he", "she", "it", "they", "me", "us", "him", "her", "them",
			"myself", "yourself", "himself", "herself", "ourselves", "themselves",
			"this", "that", "there", "someone",
			"somebody", "nobody", "everyone", "anyone", "team", "the", "backend", "frontend",
			"design", "qa", "api", "ui", "infra", "devops", "security", "launch", "deadline",
			"task", "todo", "it's",
		),
		NameFillers: NewTerms("then", "also", "so", "and", "but", "now", "maybe", "probably"),

		LaunchCues:   NewTerms("launch", "launching", "go live", "go-live", "release date"),
		DecisionCues: NewTerms("decided", "decision", "approved", "agreed", "signed off"),
		ScopeCues:    NewTerms("scope"),
		ChangeCues:   NewTerms("change", "changed", "changes", "expanded", "reduced", "cut", "added", "removed"),

		Teams: []TeamRoute{
			{Terms: NewTerms("backend", "api", "database", "server"), Role: "Backend Lead"},
			{Terms: NewTerms("frontend", "ui", "web app"), Role: "Frontend Lead"},
			{Terms: NewTerms("design", "designer", "ux"), Role: "Design Lead"},
			{Terms: NewTerms("qa", "testing", "regression"), Role: "QA Lead"},
			{Terms: NewTerms("infra", "devops", "deploy", "deployment", "ci"), Role: "DevOps Lead"},
			{Terms: NewTerms("security", "vulnerability", "cve"), Role: "Security Lead"},
		},
		EscalationCues: NewTerms("launch", "deadline", "submission", "submit"),
		EscalationRole: "Project Manager",

		KeySubjects: map[string]Terms{
			"launch_date":     NewTerms("launch", "launching", "release"),
			"priority":        NewTerms("priority", "p0", "p1"),
			"decision_status": NewTerms("decision", "decided", "approved"),
			"scope":           NewTerms("scope"),
			"deadline":        NewTerms("deadline", "due", "!due to", "!due diligence"),
		},
	}

	for _, day := range weekdays {
		l.Deadlines = append(l.Deadlines, DeadlineRule{Terms: NewTerms(day), Label: day})
	}
	return l
}

// Load returns the default lexicon with any tables present in the YAML file at
// path replacing their defaults. An empty path yields Default().
func Load(path string) (*Lexicon, error) {
	l := Default()
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate rejects tables that would break scoring: a negative weight would
// make the score decrease as more categories match.
func (l *Lexicon) Validate() error {
	seen := make(map[string]bool, len(l.Risk))
	for i, c := range l.Risk {
		if c.Name == "" {
			return fmt.Errorf("risk category %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate risk category %q", c.Name)
		}
		seen[c.Name] = true
		if c.Weight < 0 {
			return fmt.Errorf("risk category %q has negative weight %d", c.Name, c.Weight)
		}
		if c.Terms.Empty() {
			return fmt.Errorf("risk category %q has no terms", c.Name)
		}
	}
	if l.UnownedTasks.Weight < 0 {
		return fmt.Errorf("unowned_tasks has negative weight %d", l.UnownedTasks.Weight)
	}
	return nil
}

func (l *Lexicon) Dump() ([]byte, error) {
	return yaml.Marshal(l)
}

// Deadline returns the label of the first deadline rule matching clause, then
// falls back to a "<Month> <day>" date as written.
func (l *Lexicon) Deadline(clause string) string {
	for _, r := range l.Deadlines {
		if r.Terms.Match(clause) {
			return r.Label
		}
	}
	if m := monthDay.FindStringSubmatch(clause); m != nil {
		month := strings.ToUpper(m[1][:1]) + strings.ToLower(m[1][1:])
		return month + " " + m[2]
	}
	return ""
}

// Weekday returns the capitalised weekday named last in s, if any, so that
// "moved from Friday to Monday" reads as Monday.
func Weekday(s string) string {
	best, at := "", -1
	for i, t := range weekdayTerms {
		loc := t.Index(s)
		if loc != nil && loc[0] > at {
			best, at = weekdays[i], loc[0]
		}
	}
	return best
}

// Route suggests who should hear about text, in table order, each role once.
func (l *Lexicon) Route(text string) []string {
	var roles []string
	seen := make(map[string]bool)
	add := func(role string) {
		if role != "" && !seen[role] {
			seen[role] = true
			roles = append(roles, role)
		}
	}

	for _, t := range l.Teams {
		if t.Terms.Match(text) {
			add(t.Role)
		}
	}
	if l.EscalationCues.Match(text) || len(roles) == 0 {
		add(l.EscalationRole)
	}
	return roles
}

// Subjects returns the subject terms for a truth key, or nil for keys the
// lexicon does not know.
func (l *Lexicon) Subjects(key string) (Terms, bool) {
	t, ok := l.KeySubjects[key]
	return t, ok
}
