// Package disc implements the hash-indexed n-ary discrimination tree
// spec.md §4.2-§4.3 describes, and its two specializations: a ground-only
// FactsTree and a variable-admitting RulesTree.
package disc

import (
	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// node is the shared internal-node representation for both
// specializations. A node is addressed from its parent by a single
// "choice" path (spec.md §3's Node entity); the root has no choice.
type node struct {
	choice    syntagm.Path
	hasChoice bool

	children map[string]*node // keyed by choice.Key(), for hash lookup
	order    []*node          // every child, insertion order (determinism)
	varOrder []*node          // subset of order whose choice.IsVariable()
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// descendCreate walks paths from n, creating any missing nodes along the
// way, and returns the terminal node. Shared by FactsTree.Add and
// RulesTree.Add — both "follow the child indexed by the next path; if
// absent, create it" (spec.md §4.2).
func descendCreate(n *node, paths []syntagm.Path) *node {
	cur := n
	for _, p := range paths {
		key := p.Key()
		child, ok := cur.children[key]
		if !ok {
			child = newNode()
			child.choice = p
			child.hasChoice = true
			cur.children[key] = child
			cur.order = append(cur.order, child)
			if p.IsVariable() {
				cur.varOrder = append(cur.varOrder, child)
			}
		}
		cur = child
	}
	return cur
}

// descendExisting walks paths from n without creating anything, returning
// nil if any step is missing. Used only by FactsTree.RollbackAdd and
// RulesTree.RollbackAdd, to undo a staged tell() that failed partway through a cascade
// (spec.md §7's atomic-per-tell requirement).
func descendExisting(n *node, paths []syntagm.Path) *node {
	cur := n
	for _, p := range paths {
		child, ok := cur.children[p.Key()]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}

// Match is one leaf reached by a tree query, paired with the variable
// assignment accumulated while descending to it.
type Match[P any] struct {
	Payload    P
	Assignment pathalg.Assignment
}
