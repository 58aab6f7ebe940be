package kbase

import (
	"github.com/syntreenet/engine/pkg/engine/disc"
	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// MissingConditions reports, for one rule premise that unifies with a
// goal, which of that rule's other conditions are not currently in the
// facts tree — SPEC_FULL.md §C.1's supplemented "what's missing"
// report, grounded on core.py's query_goal but deliberately simplified:
// it reports one level of missing premises per matching rule rather than
// recursively expanding each missing premise against rules that could
// derive it in turn.
type MissingConditions struct {
	Rule    *disc.Rule
	Missing []syntagm.Sentence
}

// WhatsMissing is a pure, read-only query: it never enqueues activations
// or mutates either tree (spec.md §4.5's query/tell split). For every
// rule premise that unifies with goal, it substitutes that match's
// assignment into the rule's other conditions and reports whichever of
// them the facts tree does not already contain — i.e. what would need to
// be told, alongside goal, for that rule to fire. Rules are matched on
// their premises only: a rule whose consequence would produce goal is
// not reported unless goal also unifies with one of its premises. A
// substituted condition that still carries variables counts as present
// when any stored fact unifies with it.
func (kb *KnowledgeBase) WhatsMissing(goal syntagm.Sentence) []MissingConditions {
	matches := kb.rulesTree.Query(goal.Paths())
	var out []MissingConditions
	for _, m := range matches {
		for _, ref := range m.Payload {
			real := translateAssignment(m.Assignment, ref.Varmap)
			out = append(out, MissingConditions{
				Rule:    ref.Rule,
				Missing: missingConditions(kb.grammar, kb.factsTree, ref, real),
			})
		}
	}
	return out
}

func missingConditions(g syntagm.Grammar, facts *disc.FactsTree, ref disc.CondRef, a pathalg.Assignment) []syntagm.Sentence {
	var missing []syntagm.Sentence
	for i, cond := range ref.Rule.Conditions {
		if i == ref.Condition {
			continue
		}
		sc, err := pathalg.SubstituteSentence(g, cond, a)
		if err != nil {
			continue // the grammar rejected the substituted path set
		}
		if !facts.Contains(sc) {
			missing = append(missing, sc)
		}
	}
	return missing
}
