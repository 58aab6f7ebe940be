// Package reasoner is a subject/relation/object convenience facade over
// pkg/engine/kbase and pkg/engine/grammars/triples: callers who think in
// terms of plain (relation, subject, object) triples, rather than
// syntagm.Sentence/Grammar, get a small API shaped like one, backed by
// the real discrimination-network engine instead of a hand-rolled
// transitive-closure walk.
package reasoner

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/syntreenet/engine/pkg/engine/grammars/triples"
	"github.com/syntreenet/engine/pkg/engine/kbase"
)

// Transitive relations get a generic chaining rule told once at
// construction time, so every fact asserted under them immediately
// participates in the engine's own forward-chaining closure instead of
// requiring a caller-supplied rule for the common case.
var transitiveRelations = []string{"is_a", "related_to"}

// Reasoner is a knowledge base restricted to triple-shaped facts.
type Reasoner struct {
	kb *kbase.KnowledgeBase
}

// New creates a Reasoner with the standard transitive-relation rules
// already told.
func New() *Reasoner {
	kb := kbase.New(triples.Grammar{})
	for _, rel := range transitiveRelations {
		rule, err := triples.ParseRule(fmt.Sprintf("X1 %s X2; X2 %s X3 -> X1 %s X3", rel, rel, rel))
		if err != nil {
			panic(fmt.Sprintf("reasoner: built-in transitive rule for %q is malformed: %v", rel, err))
		}
		if err := kb.Tell(rule); err != nil {
			panic(fmt.Sprintf("reasoner: telling built-in transitive rule for %q failed: %v", rel, err))
		}
	}
	return &Reasoner{kb: kb}
}

// KnowledgeBase exposes the underlying engine, for callers that need the
// full Tell/Query surface (e.g. to add their own rules beyond triple
// sugar).
func (r *Reasoner) KnowledgeBase() *kbase.KnowledgeBase { return r.kb }

// LoadRules reads facts in "relation(subject, object)" form, one per
// line, blank lines and "#"-prefixed comments ignored.
func (r *Reasoner) LoadRules(text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		relation, subject, object, err := parseFactLine(line)
		if err != nil {
			return fmt.Errorf("reasoner: line %d: %w", lineNum, err)
		}
		if err := r.AddFact(relation, subject, object); err != nil {
			return fmt.Errorf("reasoner: line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

// AddFact tells the knowledge base "subject relation object".
func (r *Reasoner) AddFact(relation, subject, object string) error {
	triple := triples.New(triples.Word(subject), triples.Word(relation), triples.Word(object))
	return r.kb.Tell(triple)
}

// Query reports whether relation(subject, object) is known, directly or
// by derivation.
func (r *Reasoner) Query(relation, subject, object string) bool {
	pattern := triples.New(triples.Word(subject), triples.Word(relation), triples.Word(object))
	return len(r.kb.Query(pattern)) > 0
}

// QueryAll returns every object known to be related to subject via
// relation.
func (r *Reasoner) QueryAll(relation, subject string) []string {
	pattern := triples.New(triples.Word(subject), triples.Word(relation), triples.Word("X1"))
	matches := r.kb.Query(pattern)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if obj, ok := m.Assignment.Get(triples.Word("X1")); ok {
			out = append(out, obj.String())
		}
	}
	return out
}

// Step is one hop of a path FindPath returns.
type Step struct {
	Relation string
	From     string
	To       string
}

// FindPath searches every known fact, regardless of relation, for a
// chain connecting subject to object, breadth-first so the path
// returned is shortest in hop count.
func (r *Reasoner) FindPath(subject, object string) []Step {
	type frame struct {
		at   string
		path []Step
	}
	adjacency := r.adjacency()
	visited := map[string]bool{subject: true}
	queue := []frame{{at: subject, path: nil}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, edge := range adjacency[f.at] {
			if edge.to == object {
				return append(append([]Step{}, f.path...), Step{Relation: edge.relation, From: f.at, To: edge.to})
			}
			if visited[edge.to] {
				continue
			}
			visited[edge.to] = true
			next := append(append([]Step{}, f.path...), Step{Relation: edge.relation, From: f.at, To: edge.to})
			queue = append(queue, frame{at: edge.to, path: next})
		}
	}
	return nil
}

type edge struct {
	relation string
	to       string
}

func (r *Reasoner) adjacency() map[string][]edge {
	out := make(map[string][]edge)
	for _, fact := range r.kb.Facts() {
		t, ok := fact.(triples.Triple)
		if !ok {
			continue
		}
		out[t.Subject.String()] = append(out[t.Subject.String()], edge{relation: t.Predicate.String(), to: t.Object.String()})
	}
	return out
}

// Explain renders a human-readable justification for relation(subject,
// object), tracing the shortest known path if the fact isn't asserted
// directly.
func (r *Reasoner) Explain(relation, subject, object string) string {
	if !r.Query(relation, subject, object) {
		return fmt.Sprintf("cannot prove %s(%s, %s)", relation, subject, object)
	}
	path := r.FindPath(subject, object)
	if len(path) == 0 {
		return fmt.Sprintf("%s(%s, %s) is directly known", relation, subject, object)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "inference chain for %s(%s, %s):\n", relation, subject, object)
	for i, step := range path {
		fmt.Fprintf(&b, "  %d. %s(%s, %s)\n", i+1, step.Relation, step.From, step.To)
	}
	return b.String()
}

func parseFactLine(line string) (relation, subject, object string, err error) {
	openParen := strings.Index(line, "(")
	if openParen == -1 {
		return "", "", "", fmt.Errorf("missing '(': %s", line)
	}
	closeParen := strings.Index(line, ")")
	if closeParen == -1 {
		return "", "", "", fmt.Errorf("missing ')': %s", line)
	}
	relation = strings.TrimSpace(line[:openParen])
	args := strings.Split(line[openParen+1:closeParen], ",")
	if len(args) != 2 {
		return "", "", "", fmt.Errorf("expected 2 arguments, got %d: %s", len(args), line)
	}
	return relation, strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), nil
}
