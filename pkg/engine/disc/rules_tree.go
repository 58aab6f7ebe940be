package disc

import (
	"sort"

	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// CondRef points at one premise of one rule: the rule and the index of
// the condition within it that a rules-tree leaf corresponds to
// (spec.md §3's leaf payload for the rules tree).
type CondRef struct {
	Rule      *Rule
	Condition int

	// Varmap maps this condition's canonical variables (as stored in the
	// tree, see pkg/engine/kbase's normalizeCondition) back to the
	// variables the rule itself was written with. A Query match's
	// Assignment is keyed by canonical names and must be translated
	// through Varmap before it is used to substitute into Rule's real
	// conditions and consequences.
	Varmap pathalg.Assignment
}

// RulesTree is the variable-admitting discrimination tree of spec.md
// §4.2: it indexes every outstanding rule premise. Insertion order
// follows pkg/engine/pathalg.CanonicalOrder (ground paths before
// variable paths among paths sharing a prefix), and insertion is idempotent at the leaf — re-inserting
// an equal (rule, condition-index) pair is a no-op.
type RulesTree struct {
	root    *node
	payload map[*node][]CondRef
}

// NewRulesTree creates an empty rules tree.
func NewRulesTree() *RulesTree {
	return &RulesTree{root: newNode(), payload: make(map[*node][]CondRef)}
}

// Add inserts one condition's path set under the given CondRef, returning
// false if this exact (rule, condition-index) pair was already present.
func (t *RulesTree) Add(conditionPaths []syntagm.Path, ref CondRef) bool {
	paths := pathalg.CanonicalOrder(conditionPaths)
	leaf := descendCreate(t.root, paths)
	for _, existing := range t.payload[leaf] {
		if existing.Rule.Key() == ref.Rule.Key() && existing.Condition == ref.Condition {
			return false
		}
	}
	t.payload[leaf] = append(t.payload[leaf], ref)
	return true
}

// RollbackAdd undoes a prior Add of (conditionPaths, ref). See
// FactsTree.RollbackAdd for the rationale and the same leftover-empty-node
// caveat.
func (t *RulesTree) RollbackAdd(conditionPaths []syntagm.Path, ref CondRef) {
	leaf := descendExisting(t.root, pathalg.CanonicalOrder(conditionPaths))
	if leaf == nil {
		return
	}
	refs := t.payload[leaf]
	for i, existing := range refs {
		if existing.Rule.Key() == ref.Rule.Key() && existing.Condition == ref.Condition {
			t.payload[leaf] = append(refs[:i], refs[i+1:]...)
			return
		}
	}
}

// Query matches a ground fact's paths against every stored rule premise,
// following both the exact ground branch (if any) and every variable
// branch that unifies — spec.md §4.2's "a query that carries a concrete
// value can traverse purely by hash lookup until the variable zone, where
// it fans out." Variable branches are visited in insertion order
// (DESIGN.md's pinned tie-break).
func (t *RulesTree) Query(factPaths []syntagm.Path) []Match[[]CondRef] {
	canon := pathalg.CanonicalOrder(factPaths)
	var out []Match[[]CondRef]
	t.query(t.root, canon, pathalg.Empty, &out)
	return out
}

func (t *RulesTree) query(n *node, paths []syntagm.Path, a pathalg.Assignment, out *[]Match[[]CondRef]) {
	if len(paths) == 0 {
		if refs, ok := t.payload[n]; ok && len(refs) > 0 {
			*out = append(*out, Match[[]CondRef]{Payload: refs, Assignment: a})
		}
		return
	}
	path, rest := paths[0], paths[1:]

	if child, ok := n.children[path.Key()]; ok {
		t.query(child, rest, a, out)
	}
	for _, child := range n.varOrder {
		b, ok := pathalg.UnifyPath(child.choice, path)
		if !ok {
			continue
		}
		merged, ok := a.Merge(b)
		if !ok {
			continue
		}
		t.query(child, rest, merged, out)
	}
}

// Rules returns every distinct rule with at least one outstanding
// premise, sorted by display string for deterministic iteration (debug
// use; spec.md §4.5 KB.rules()).
func (t *RulesTree) Rules() []*Rule {
	seen := make(map[string]*Rule)
	for _, refs := range t.payload {
		for _, ref := range refs {
			seen[ref.Rule.Key()] = ref.Rule
		}
	}
	out := make([]*Rule, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
