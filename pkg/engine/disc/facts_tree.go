package disc

import (
	"sort"

	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// FactsTree is the ground-only discrimination tree of spec.md §4.3: every
// inserted path set must be fully ground (no variables), since facts
// carry no variables. Queries, however, may carry variables — either
// from a duplicate-detection exact query (no variables) or from a newly
// added rule's premise pre-populating activations (variables present).
type FactsTree struct {
	root  *node
	facts map[*node]syntagm.Sentence
}

// NewFactsTree creates an empty facts tree.
func NewFactsTree() *FactsTree {
	return &FactsTree{root: newNode(), facts: make(map[*node]syntagm.Sentence)}
}

// Add inserts a ground fact, returning false if it was already present
// (the leaf it maps to already holds a fact — set semantics, spec.md §3
// "Insertion is monotone; nothing is ever deleted").
func (t *FactsTree) Add(fact syntagm.Sentence) bool {
	paths := pathalg.CanonicalOrder(fact.Paths())
	leaf := descendCreate(t.root, paths)
	if _, exists := t.facts[leaf]; exists {
		return false
	}
	t.facts[leaf] = fact
	return true
}

// RollbackAdd undoes a prior Add of fact. Used exclusively by
// pkg/engine/kbase to restore a knowledge base to its pre-tell state when
// a cascade fails partway through (spec.md §7). It is not a general
// retraction mechanism: the engine is monotonic (spec.md §1 Non-goals),
// and this leaves now-empty intermediate nodes in place rather than
// pruning them — harmless, since an empty node costs a map entry and
// nothing else.
func (t *FactsTree) RollbackAdd(fact syntagm.Sentence) {
	leaf := descendExisting(t.root, pathalg.CanonicalOrder(fact.Paths()))
	if leaf != nil {
		delete(t.facts, leaf)
	}
}

// Contains reports whether fact (ground) is already stored.
func (t *FactsTree) Contains(fact syntagm.Sentence) bool {
	return len(t.Query(fact.Paths())) > 0
}

// Query matches patternPaths — possibly containing variables — against
// every stored fact, returning one Match per fact that unifies, paired
// with the assignment that makes it unify. Variable positions fan out
// over every sibling the first time that variable is encountered; once
// bound, later occurrences of the same variable become a single O(1)
// hash lookup (spec.md §4.3, §9's sub-logarithmic cost rationale).
func (t *FactsTree) Query(patternPaths []syntagm.Path) []Match[syntagm.Sentence] {
	canon := pathalg.CanonicalOrder(patternPaths)
	var out []Match[syntagm.Sentence]
	t.query(t.root, canon, pathalg.Empty, &out)
	return out
}

func (t *FactsTree) query(n *node, paths []syntagm.Path, a pathalg.Assignment, out *[]Match[syntagm.Sentence]) {
	if len(paths) == 0 {
		if fact, ok := t.facts[n]; ok {
			*out = append(*out, Match[syntagm.Sentence]{Payload: fact, Assignment: a})
		}
		return
	}
	path, rest := paths[0], paths[1:]

	if path.IsVariable() {
		varSyn := path.Value()
		if _, bound := a.Get(varSyn); bound {
			concrete := pathalg.Substitute(path, a)
			if child, ok := n.children[concrete.Key()]; ok {
				t.query(child, rest, a, out)
			}
			return
		}
		for _, child := range n.order {
			b, ok := pathalg.UnifyPath(path, child.choice)
			if !ok {
				continue
			}
			merged, ok := a.Merge(b)
			if !ok {
				continue
			}
			t.query(child, rest, merged, out)
		}
		return
	}

	if child, ok := n.children[path.Key()]; ok {
		t.query(child, rest, a, out)
	}
}

// All returns every stored fact, sorted by display string for
// deterministic iteration (debug use; spec.md §4.5 KB.facts()).
func (t *FactsTree) All() []syntagm.Sentence {
	out := make([]syntagm.Sentence, 0, len(t.facts))
	for _, f := range t.facts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len reports how many facts are stored.
func (t *FactsTree) Len() int { return len(t.facts) }
