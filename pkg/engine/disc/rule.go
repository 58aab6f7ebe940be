package disc

import (
	"strings"

	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// Rule is spec.md §3's Rule entity: an ordered tuple of condition
// sentences plus an ordered tuple of consequence sentences. Rules are
// immutable once constructed; specialization (kbase package) always
// produces a fresh Rule rather than mutating one in place.
type Rule struct {
	Conditions   []syntagm.Sentence
	Consequences []syntagm.Sentence
}

// Key returns the canonical display string spec.md §6 requires for the
// "adding rule ..." log line: conditions joined by "; ", " -> ", then
// consequences joined by "; ". Two rules with the same Key are
// considered the same rule for the rules tree's idempotent-insertion set
// semantics (spec.md §4.4).
func (r *Rule) Key() string {
	conds := make([]string, len(r.Conditions))
	for i, c := range r.Conditions {
		conds[i] = c.String()
	}
	conss := make([]string, len(r.Consequences))
	for i, c := range r.Consequences {
		conss[i] = c.String()
	}
	return strings.Join(conds, "; ") + " -> " + strings.Join(conss, "; ")
}

func (r *Rule) String() string { return r.Key() }
