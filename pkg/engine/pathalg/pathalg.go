// Package pathalg implements the path algebra spec.md §4.1 describes:
// substitution, one-sided unification of a pattern path against a ground
// path, and path-set matching between a pattern sentence and a fact
// sentence.
package pathalg

import (
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// Assignment is a finite, ordered mapping from variable syntagms to the
// syntagms they're bound to. Ordered (rather than a bare Go map) so that
// Assignment.String() — used in debug logging and in
// kbase.WhatsMissing's reports — is deterministic, matching spec.md §8's
// order-determinism property.
type Assignment struct {
	pairs []pair
}

type pair struct {
	Key, Value syntagm.Syntagm
}

// Empty is the assignment with no bindings.
var Empty = Assignment{}

// Get returns the syntagm bound to key, if any.
func (a Assignment) Get(key syntagm.Syntagm) (syntagm.Syntagm, bool) {
	for _, p := range a.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set returns a copy of a with key bound to value, replacing any existing
// binding for key.
func (a Assignment) Set(key, value syntagm.Syntagm) Assignment {
	out := make([]pair, 0, len(a.pairs)+1)
	replaced := false
	for _, p := range a.pairs {
		if p.Key == key {
			out = append(out, pair{key, value})
			replaced = true
		} else {
			out = append(out, p)
		}
	}
	if !replaced {
		out = append(out, pair{key, value})
	}
	return Assignment{pairs: out}
}

// Len reports the number of bindings.
func (a Assignment) Len() int { return len(a.pairs) }

// Keys returns the assignment's variable keys in binding order.
func (a Assignment) Keys() []syntagm.Syntagm {
	keys := make([]syntagm.Syntagm, len(a.pairs))
	for i, p := range a.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Merge combines a and b into a new Assignment, failing (ok=false) if
// they disagree on the binding for any shared key — spec.md §4.1's
// "cross-path consistency" check.
func (a Assignment) Merge(b Assignment) (Assignment, bool) {
	out := a
	for _, p := range b.pairs {
		if existing, ok := out.Get(p.Key); ok {
			if existing != p.Value {
				return Assignment{}, false
			}
			continue
		}
		out = out.Set(p.Key, p.Value)
	}
	return out, true
}

// Invert returns a new Assignment with keys and values swapped. Used to
// turn a rule-normalization varmap (canonical var -> original var) back
// around (original -> canonical) and vice versa (SPEC_FULL.md §C.3).
func (a Assignment) Invert() Assignment {
	out := make([]pair, len(a.pairs))
	for i, p := range a.pairs {
		out[i] = pair{p.Value, p.Key}
	}
	return Assignment{pairs: out}
}

func (a Assignment) String() string {
	parts := make([]string, len(a.pairs))
	for i, p := range a.pairs {
		parts[i] = p.Key.String() + "=" + p.Value.String()
	}
	return strings.Join(parts, ", ")
}

// Substitute replaces every syntagm in path that appears as a key in a
// with its bound value; all other syntagms pass through unchanged.
func Substitute(path syntagm.Path, a Assignment) syntagm.Path {
	if a.Len() == 0 {
		return path
	}
	changed := false
	segs := make([]syntagm.Syntagm, len(path.Segments))
	for i, seg := range path.Segments {
		if seg.IsVariable() {
			if v, ok := a.Get(seg); ok {
				segs[i] = v
				changed = true
				continue
			}
		}
		segs[i] = seg
	}
	if !changed {
		return path
	}
	return syntagm.Path{Segments: segs}
}

// SubstituteSentence applies Substitute path-wise to every path of s,
// then rebuilds the sentence through the grammar, per spec.md §4.1.
func SubstituteSentence(g syntagm.Grammar, s syntagm.Sentence, a Assignment) (syntagm.Sentence, error) {
	paths := s.Paths()
	newPaths := make([]syntagm.Path, len(paths))
	for i, p := range paths {
		newPaths[i] = Substitute(p, a)
	}
	return g.FromPaths(newPaths)
}

// UnifyPath one-sidedly unifies a single pattern path against a single
// ground fact path, per spec.md §4.1: equal length is required; at every
// position a non-variable pattern syntagm must equal the fact syntagm,
// and a variable syntagm either contributes a fresh binding or, if
// already bound within this call, must agree with its existing binding.
func UnifyPath(pattern, fact syntagm.Path) (Assignment, bool) {
	if len(pattern.Segments) != len(fact.Segments) {
		return Assignment{}, false
	}
	a := Empty
	for i, ps := range pattern.Segments {
		fs := fact.Segments[i]
		if ps.IsVariable() {
			if bound, ok := a.Get(ps); ok {
				if bound != fs {
					return Assignment{}, false
				}
				continue
			}
			a = a.Set(ps, fs)
			continue
		}
		if ps != fs {
			return Assignment{}, false
		}
	}
	return a, true
}

// Matches computes the path-wise bijection between a pattern sentence's
// paths and a fact sentence's paths, succeeding only when every paired
// path unifies and the whole set of per-path assignments is mutually
// consistent (spec.md §4.1).
func Matches(patternPaths, factPaths []syntagm.Path) (Assignment, bool) {
	pp := CanonicalOrder(patternPaths)
	fp := CanonicalOrder(factPaths)
	if len(pp) != len(fp) {
		return Assignment{}, false
	}
	result := Empty
	for i := range pp {
		a, ok := UnifyPath(pp[i], fp[i])
		if !ok {
			return Assignment{}, false
		}
		merged, ok := result.Merge(a)
		if !ok {
			return Assignment{}, false
		}
		result = merged
	}
	return result, true
}

// CanonicalOrder returns paths grouped by their shared prefix — the
// segments before the terminal one, which is the part of the sentence's
// tree a grammar's own structure fixes independently of whether any
// given slot happens to be filled with a ground symbol or a variable
// (spec.md §4.2: "variable-terminal paths sorted after all ground-
// terminal paths sharing their prefix"). Groups themselves keep the
// relative order their prefix first appears in paths; only the paths
// within one group are reordered, ground-terminal first, then
// lexicographically by String(). For a grammar like triples, where every
// path's prefix (its role tag) is unique, this is a no-op: the three
// paths stay in subject/predicate/object order whether "is" is ground or
// "X1"/"X2" are variables, which is what keeps a rule premise's path
// order aligned with a fact's when pkg/engine/disc descends both
// sequences through the same tree (DESIGN.md "Open Question decisions").
func CanonicalOrder(paths []syntagm.Path) []syntagm.Path {
	type group struct {
		paths []syntagm.Path
	}
	order := make([]string, 0, len(paths))
	groups := make(map[string]*group, len(paths))
	for _, p := range paths {
		key := prefixKey(p)
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		g.paths = append(g.paths, p)
	}

	out := make([]syntagm.Path, 0, len(paths))
	for _, key := range order {
		g := groups[key]
		sort.SliceStable(g.paths, func(i, j int) bool {
			vi, vj := g.paths[i].IsVariable(), g.paths[j].IsVariable()
			if vi != vj {
				return !vi // ground (false) sorts before variable (true)
			}
			return g.paths[i].String() < g.paths[j].String()
		})
		out = append(out, g.paths...)
	}
	return out
}

// prefixKey identifies the structural position a path's terminal segment
// occupies: everything but that terminal segment, keyed the same way a
// Path itself is. Two paths with the same prefix are genuine siblings —
// alternative fillers for the same slot — and are the only paths
// CanonicalOrder ever reorders relative to each other.
func prefixKey(p syntagm.Path) string {
	if len(p.Segments) <= 1 {
		return ""
	}
	return syntagm.Path{Segments: p.Segments[:len(p.Segments)-1]}.Key()
}

// Interner deduplicates structurally identical Path values so that
// repeated substitution during rule specialization doesn't keep
// allocating fresh, equal Path slices. This is the "arena / interning
// pool... recommended" by spec.md §9; it is pure memory hygiene and has
// no effect on matching semantics.
type Interner struct {
	cache *lru.Cache[string, syntagm.Path]
}

// NewInterner creates an Interner holding up to size distinct paths.
func NewInterner(size int) *Interner {
	c, err := lru.New[string, syntagm.Path](size)
	if err != nil {
		// Only returns an error for size <= 0.
		c, _ = lru.New[string, syntagm.Path](1)
	}
	return &Interner{cache: c}
}

// Intern returns the canonical, previously-seen Path equal to p, storing
// p as canonical if this is the first time it's seen.
func (in *Interner) Intern(p syntagm.Path) syntagm.Path {
	key := p.Key()
	if existing, ok := in.cache.Get(key); ok {
		return existing
	}
	in.cache.Add(key, p)
	return p
}
