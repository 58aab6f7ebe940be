package kbase

import (
	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// normalizeCondition renames a condition's variables to the grammar's
// canonical variables g.NewVariable(1), g.NewVariable(2), ... (X__1,
// X__2, ... for triples), numbered in path order (SPEC_FULL.md §C.3, grounded on
// core.py Sentence.normalize / ruleset.py Rete.add_rule), so that two
// syntactically different but structurally equivalent conditions collapse
// onto the same rules-tree path. Returns the renamed path set plus the
// varmap (canonical variable -> the condition's own original variable)
// needed to translate a match's assignment back before it's used to
// substitute the rest of the rule.
func normalizeCondition(g syntagm.Grammar, cond syntagm.Sentence) ([]syntagm.Path, pathalg.Assignment) {
	paths := cond.Paths()
	origToCanon := pathalg.Empty
	counter := 1
	out := make([]syntagm.Path, len(paths))
	for i, p := range paths {
		if !p.IsVariable() {
			out[i] = p
			continue
		}
		orig := p.Value()
		canon, ok := origToCanon.Get(orig)
		if !ok {
			canon = g.NewVariable(counter)
			counter++
			origToCanon = origToCanon.Set(orig, canon)
		}
		out[i] = pathalg.Substitute(p, origToCanon)
	}
	return out, origToCanon.Invert()
}

// sentenceVariables collects the distinct variable syntagms appearing in
// s's paths.
func sentenceVariables(s syntagm.Sentence) map[syntagm.Syntagm]bool {
	vars := make(map[syntagm.Syntagm]bool)
	for _, p := range s.Paths() {
		if p.IsVariable() {
			vars[p.Value()] = true
		}
	}
	return vars
}

// translateAssignment rewrites an assignment's keys using varmap
// (canonical -> original), so a match returned by the rules tree (keyed
// by canonical NewVariable(n) variables) can be applied to a rule's own
// conditions/consequences (which use the rule's real variable names).
func translateAssignment(a pathalg.Assignment, varmap pathalg.Assignment) pathalg.Assignment {
	out := pathalg.Empty
	for _, k := range a.Keys() {
		v, _ := a.Get(k)
		if orig, ok := varmap.Get(k); ok {
			out = out.Set(orig, v)
			continue
		}
		out = out.Set(k, v)
	}
	return out
}
