package kbase

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"

	"github.com/syntreenet/engine/pkg/engine/disc"
	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// activationKind distinguishes the two activation shapes spec.md §3
// describes: a bare new-fact insertion, or a rule match carrying the
// variable assignment induced by unifying one of the rule's conditions.
type activationKind int

const (
	kindFact activationKind = iota
	kindRuleMatch
)

// activation is a unit of pending work on the FIFO queue (spec.md §3's
// Activation entity). Ephemeral: created by tell/specialization, consumed
// and discarded by the processing loop.
type activation struct {
	id   ulid.ULID
	kind activationKind

	fact syntagm.Sentence // kindFact

	rule           *disc.Rule         // kindRuleMatch
	conditionIndex int                // kindRuleMatch
	assignment     pathalg.Assignment // kindRuleMatch, keyed by the rule's own (unnormalized) variables
}

// idSource produces monotonic ULIDs for activation correlation in logs,
// mirroring the teacher's cards.Builder (ulid.Monotonic + ulid.MustNew).
type idSource struct {
	entropy *ulid.MonotonicEntropy
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *idSource) next() ulid.ULID {
	return ulid.MustNew(ulid.Now(), s.entropy)
}
