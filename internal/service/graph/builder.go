package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/service/lexicon"
)

type Builder struct {
	lex *lexicon.Lexicon
}

func NewBuilder(lex *lexicon.Lexicon) *Builder {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Builder{lex: lex}
}

// Build maps tasks and truths to nodes and edges. Node ids are derived from
// kind and slugged text only, so the same input always yields the same graph
// and repeated names collapse into one node.
func (b *Builder) Build(tasks []core.Task, truths []core.Fact) core.Graph {
	g := &graph{
		out:   core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}},
		nodes: make(map[string]bool),
		edges: make(map[core.Edge]bool),
	}

	type ref struct {
		id       string
		subjects lexicon.Terms
		value    string
	}
	refs := make([]ref, 0, len(truths))
	for _, f := range truths {
		id := NodeID(core.NodeTruth, f.Key)
		g.node(id, core.NodeTruth, fmt.Sprintf("%s = %s", f.Key, f.Value))
		refs = append(refs, ref{id: id, subjects: b.subjects(f.Key), value: f.Value})
	}

	for _, t := range tasks {
		taskID := NodeID(core.NodeTask, t.Description)
		g.node(taskID, core.NodeTask, t.Description)

		if t.Owner != "" {
			id := NodeID(core.NodePerson, t.Owner)
			g.node(id, core.NodePerson, t.Owner)
			g.edge(taskID, id, core.RelAssignedTo)
		}
		if t.Dependency != "" {
			id := NodeID(core.NodeDependency, t.Dependency)
			g.node(id, core.NodeDependency, t.Dependency)
			g.edge(taskID, id, core.RelDependsOn)
		}
		for _, r := range refs {
			if r.subjects.Match(t.Description) || (t.Deadline != "" && strings.EqualFold(t.Deadline, r.value)) {
				g.edge(taskID, r.id, core.RelReferences)
			}
		}
	}
	return g.out
}

// subjects are the lexicon's words for a known key, or else the longer words
// of the key itself ("release_train" -> "release", "train").
func (b *Builder) subjects(key string) lexicon.Terms {
	if t, ok := b.lex.Subjects(key); ok {
		return t
	}
	var words []string
	for _, w := range strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == '.' }) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return lexicon.NewTerms(words...)
}

type graph struct {
	out   core.Graph
	nodes map[string]bool
	edges map[core.Edge]bool
}

func (g *graph) node(id string, kind core.NodeKind, label string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.out.Nodes = append(g.out.Nodes, core.Node{ID: id, Kind: kind, Label: label})
}

func (g *graph) edge(from, to string, rel core.Relation) {
	e := core.Edge{From: from, To: to, Relation: rel}
	if g.edges[e] {
		return
	}
	g.edges[e] = true
	g.out.Edges = append(g.out.Edges, e)
}

// NodeID is "<kind>:<slug>". Truth keys are used as written.
func NodeID(kind core.NodeKind, text string) string {
	if kind == core.NodeTruth {
		return string(kind) + ":" + text
	}
	return string(kind) + ":" + Slug(text)
}

// Slug lowercases s and joins its letter and digit runs with single dashes.
func Slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
			continue
		}
		dash = true
	}
	if sb.Len() == 0 {
		return "unnamed"
	}
	return sb.String()
}
