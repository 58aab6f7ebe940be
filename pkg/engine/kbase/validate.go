package kbase

import (
	"github.com/syntreenet/engine/pkg/engine/disc"
	"github.com/syntreenet/engine/pkg/engine/internalerr"
	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// validateRule checks spec.md §7's MalformedRule conditions: a rule with
// zero conditions (facts should be told directly instead), a consequence
// mentioning a variable not bound by any condition, or two conditions
// that are the literal same path set (a duplicate premise contributes no
// binding the other doesn't already, and would insert the same rules-tree
// leaf twice under two different CondRef condition indices). Runs before
// any tree mutation, satisfying §7's "validate fully before any mutation"
// atomicity option for this error kind.
func validateRule(rule *disc.Rule) error {
	if len(rule.Conditions) == 0 {
		return &internalerr.MalformedRule{
			Reason: "rule has zero conditions; tell the consequences as facts instead",
		}
	}

	for i, a := range rule.Conditions {
		for _, b := range rule.Conditions[i+1:] {
			if sameConditionPaths(a, b) {
				return &internalerr.MalformedRule{
					Reason: "duplicate condition " + a.String() + " repeated in rule",
				}
			}
		}
	}

	boundVars := make(map[string]bool)
	for _, cond := range rule.Conditions {
		for v := range sentenceVariables(cond) {
			boundVars[v.String()] = true
		}
	}

	for _, cons := range rule.Consequences {
		for v := range sentenceVariables(cons) {
			if !boundVars[v.String()] {
				return &internalerr.MalformedRule{
					Reason: "consequence " + cons.String() + " uses variable " + v.String() + " not bound by any condition",
				}
			}
		}
	}
	return nil
}

// sameConditionPaths reports whether a and b decompose into the exact
// same canonically-ordered path set, position by position — a stricter
// check than unifiability, since it treats two conditions that merely
// match the same facts but spell a variable differently as distinct.
func sameConditionPaths(a, b syntagm.Sentence) bool {
	pa := pathalg.CanonicalOrder(a.Paths())
	pb := pathalg.CanonicalOrder(b.Paths())
	if len(pa) != len(pb) {
		return false
	}
	for i := range pa {
		if !pa[i].Equal(pb[i]) {
			return false
		}
	}
	return true
}
