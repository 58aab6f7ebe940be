// Package kbase implements spec.md §4.4-§4.5: the activation engine and
// the knowledge base that owns the rules tree, the facts tree, and the
// FIFO activation queue. tell() blocks until the whole cascade it
// triggers has drained (spec.md §5): there are no suspension points and
// no locking, matching the single-threaded, synchronous concurrency
// model the spec requires.
package kbase

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/syntreenet/engine/pkg/engine/disc"
	"github.com/syntreenet/engine/pkg/engine/internalerr"
	"github.com/syntreenet/engine/pkg/engine/pathalg"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// KnowledgeBase holds both discrimination trees, the activation queue,
// and the tell entry point (spec.md §2, §4.5). ID disambiguates log
// lines when an embedder runs more than one independent knowledge base
// (spec.md §9: "Global state. None. ... Multiple independent knowledge
// bases coexist.").
type KnowledgeBase struct {
	ID uuid.UUID

	grammar    syntagm.Grammar
	factsTree  *disc.FactsTree
	rulesTree  *disc.RulesTree
	knownRules map[string]bool

	queue []*activation
	ids   *idSource
	undo  []func()

	interner *pathalg.Interner
	logger   *log.Logger
	observer func(ulid.ULID)
}

// New creates a knowledge base for the given grammar plug-in (spec.md
// §6's new_knowledge_base(grammar)).
func New(grammar syntagm.Grammar) *KnowledgeBase {
	id := uuid.New()
	return &KnowledgeBase{
		ID:         id,
		grammar:    grammar,
		factsTree:  disc.NewFactsTree(),
		rulesTree:  disc.NewRulesTree(),
		knownRules: make(map[string]bool),
		ids:        newIDSource(),
		interner:   pathalg.NewInterner(4096),
		logger:     log.New(os.Stderr, fmt.Sprintf("kbase[%s] ", id.String()[:8]), log.LstdFlags),
	}
}

// SetLogger overrides the default stderr logger, e.g. to route activation
// logs into cmd/engine-repl's own output or a test buffer.
func (kb *KnowledgeBase) SetLogger(l *log.Logger) { kb.logger = l }

// SetActivationObserver registers f to be called with every activation's
// ID as it is dequeued and before it is processed, letting an external
// collaborator (cmd/engine-bench's timing harness) key its own
// measurements off the same IDs the logger prints rather than off wall
// clock guesses. A nil observer (the default) costs nothing.
func (kb *KnowledgeBase) SetActivationObserver(f func(ulid.ULID)) { kb.observer = f }

// Tell adds a new sentence (fact) or rule to the knowledge base,
// draining the full resulting activation cascade before returning
// (spec.md §4.4, §5, §6's new_knowledge_base/tell library surface).
//
// On error the knowledge base is left exactly as it was before the call
// (spec.md §7): rule validation runs before any mutation, and any
// mutation performed mid-cascade is undone if a later step in the same
// Tell fails.
func (kb *KnowledgeBase) Tell(sentenceOrRule any) error {
	switch v := sentenceOrRule.(type) {
	case *disc.Rule:
		return kb.tellRule(v)
	case syntagm.Sentence:
		return kb.tellFact(v)
	default:
		return fmt.Errorf("kbase: Tell: %T is neither a syntagm.Sentence nor a *disc.Rule", sentenceOrRule)
	}
}

func (kb *KnowledgeBase) tellFact(fact syntagm.Sentence) error {
	kb.undo = kb.undo[:0]
	kb.enqueue(&activation{id: kb.ids.next(), kind: kindFact, fact: fact})
	if err := kb.drain(); err != nil {
		kb.rollback()
		return err
	}
	kb.undo = kb.undo[:0]
	return nil
}

func (kb *KnowledgeBase) tellRule(rule *disc.Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	kb.undo = kb.undo[:0]
	if err := kb.insertRule(rule); err != nil {
		kb.rollback()
		return err
	}
	if err := kb.drain(); err != nil {
		kb.rollback()
		return err
	}
	kb.undo = kb.undo[:0]
	return nil
}

func (kb *KnowledgeBase) enqueue(a *activation) {
	kb.queue = append(kb.queue, a)
}

func (kb *KnowledgeBase) popFront() (*activation, bool) {
	if len(kb.queue) == 0 {
		return nil, false
	}
	a := kb.queue[0]
	kb.queue = kb.queue[1:]
	return a, true
}

func (kb *KnowledgeBase) rollback() {
	for i := len(kb.undo) - 1; i >= 0; i-- {
		kb.undo[i]()
	}
	kb.undo = kb.undo[:0]
	kb.queue = nil
}

// drain processes activations FIFO until the queue is empty or one fails
// (spec.md §4.4's processing loop, §5's FIFO ordering guarantee).
func (kb *KnowledgeBase) drain() error {
	for {
		act, ok := kb.popFront()
		if !ok {
			return nil
		}
		if err := kb.processOne(act); err != nil {
			return err
		}
	}
}

func (kb *KnowledgeBase) processOne(act *activation) error {
	if kb.observer != nil {
		kb.observer(act.id)
	}
	switch act.kind {
	case kindFact:
		return kb.processFact(act.id, act.fact)
	case kindRuleMatch:
		return kb.processRuleMatch(act.rule, act.conditionIndex, act.assignment)
	default:
		return &internalerr.InvariantViolation{Reason: "activation with unknown kind"}
	}
}

// processFact implements spec.md §4.4's three steps for a plain sentence
// activation: dedup, match against the rules tree, install. id is the
// activation's own ULID, logged alongside the fact so a long tell session's
// lines can be correlated back to a specific enqueue (spec.md §6's "adding
// fact ..." line, SPEC_FULL.md §B's log-correlation use of the ID).
func (kb *KnowledgeBase) processFact(id ulid.ULID, fact syntagm.Sentence) error {
	if kb.factsTree.Contains(fact) {
		return nil // step 1: dedup before match (spec.md §5)
	}
	kb.logger.Printf("adding fact %q [%s]", fact.String(), id.String())

	if err := kb.matchRulesAgainstFact(fact); err != nil { // step 2
		return err
	}

	kb.factsTree.Add(fact) // step 3: install
	kb.undo = append(kb.undo, func() { kb.factsTree.RollbackAdd(fact) })
	return nil
}

// matchRulesAgainstFact queries the rules tree with fact's paths and
// enqueues one rule-match activation per (rule, condition) leaf payload
// entry found, in the deterministic order pkg/engine/disc.RulesTree.Query
// returns them. It never resolves a match itself — specialize-or-fire is
// decided later, when that activation is popped off the FIFO queue — so
// the relative order of specializations and consequence emissions that
// trace back to the same fact is the order Query returns its leaves (at
// each node the ground branch first, then variable branches in insertion
// order) and, within one leaf, the order its CondRefs were inserted
// (spec.md §5's ordering guarantee).
func (kb *KnowledgeBase) matchRulesAgainstFact(fact syntagm.Sentence) error {
	matches := kb.rulesTree.Query(fact.Paths())
	for _, m := range matches {
		for _, ref := range m.Payload {
			real := translateAssignment(m.Assignment, ref.Varmap)
			kb.enqueue(&activation{
				id:             kb.ids.next(),
				kind:           kindRuleMatch,
				rule:           ref.Rule,
				conditionIndex: ref.Condition,
				assignment:     real,
			})
		}
	}
	return nil
}

// processRuleMatch implements spec.md §4.4 step 2's inner logic: given a
// rule matched at conditionIndex under assignment, substitute assignment
// into every other condition and into every consequence. If no
// conditions remain, every consequence is now ground and is enqueued as
// a new fact; otherwise a specialized rule (with conditionIndex's
// condition consumed) is inserted via the same tell(rule) path.
func (kb *KnowledgeBase) processRuleMatch(rule *disc.Rule, conditionIndex int, assignment pathalg.Assignment) error {
	remaining := make([]syntagm.Sentence, 0, len(rule.Conditions)-1)
	for i, c := range rule.Conditions {
		if i == conditionIndex {
			continue
		}
		sc, err := pathalg.SubstituteSentence(kb.grammar, c, assignment)
		if err != nil {
			return wrapGrammarViolation(c, err)
		}
		remaining = append(remaining, kb.intern(sc))
	}

	newConsequences := make([]syntagm.Sentence, len(rule.Consequences))
	for i, c := range rule.Consequences {
		sc, err := pathalg.SubstituteSentence(kb.grammar, c, assignment)
		if err != nil {
			return wrapGrammarViolation(c, err)
		}
		newConsequences[i] = kb.intern(sc)
	}

	if len(remaining) == 0 {
		for _, c := range newConsequences {
			kb.enqueue(&activation{id: kb.ids.next(), kind: kindFact, fact: c})
		}
		return nil
	}

	return kb.insertRule(&disc.Rule{Conditions: remaining, Consequences: newConsequences})
}

// intern rebuilds s from interned paths, so a long specialization chain
// that keeps re-deriving the same ground path (e.g. an "isa" link walked
// again from a different rule) shares one Path value for it instead of
// reallocating an equal one at every step. Pure memory hygiene (spec.md
// §9); intern falls back to the un-interned sentence on any grammar
// error, which a Path that already round-tripped once cannot trigger.
func (kb *KnowledgeBase) intern(s syntagm.Sentence) syntagm.Sentence {
	paths := s.Paths()
	interned := make([]syntagm.Path, len(paths))
	for i, p := range paths {
		interned[i] = kb.interner.Intern(p)
	}
	rebuilt, err := kb.grammar.FromPaths(interned)
	if err != nil {
		return s
	}
	return rebuilt
}

// insertRule is spec.md §4.4's tell(rule) path, used both for
// user-told rules and for rules derived mid-cascade by specialization
// (spec.md §9's open question: both log identically as "adding rule").
// It inserts every condition into the rules tree first, then — in a
// second pass over the conditions, matching the original's two-pass
// structure — queries the facts tree once per condition and enqueues a
// rule-match activation for every fact already present that unifies.
func (kb *KnowledgeBase) insertRule(rule *disc.Rule) error {
	if err := validateRule(rule); err != nil {
		return err
	}
	if kb.knownRules[rule.Key()] {
		return nil // idempotent re-derivation: spec.md §4.4 "no double-firing"
	}
	kb.knownRules[rule.Key()] = true
	kb.undo = append(kb.undo, func() { delete(kb.knownRules, rule.Key()) })

	id := kb.ids.next()
	kb.logger.Printf("adding rule %q [%s]", rule.String(), id.String())

	for i, cond := range rule.Conditions {
		normPaths, varmap := normalizeCondition(kb.grammar, cond)
		ref := disc.CondRef{Rule: rule, Condition: i, Varmap: varmap}
		if kb.rulesTree.Add(normPaths, ref) {
			kb.undo = append(kb.undo, func() { kb.rulesTree.RollbackAdd(normPaths, ref) })
		}
	}

	for i, cond := range rule.Conditions {
		matches := kb.factsTree.Query(cond.Paths())
		for _, m := range matches {
			kb.enqueue(&activation{
				id:             kb.ids.next(),
				kind:           kindRuleMatch,
				rule:           rule,
				conditionIndex: i,
				assignment:     m.Assignment,
			})
		}
	}
	return nil
}

func wrapGrammarViolation(s syntagm.Sentence, err error) error {
	return &internalerr.GrammarViolation{Reason: "substituting " + s.String(), Err: err}
}

// Query is spec.md §4.5's pure, read-only pattern query against the
// facts tree: it never enqueues activations and may run concurrently
// with other queries (but not with a Tell — spec.md §5).
func (kb *KnowledgeBase) Query(pattern syntagm.Sentence) []disc.Match[syntagm.Sentence] {
	return kb.factsTree.Query(pattern.Paths())
}

// Facts returns every asserted fact (debug; spec.md §6 KB.facts()).
func (kb *KnowledgeBase) Facts() []syntagm.Sentence {
	return kb.factsTree.All()
}

// Rules returns every rule with at least one outstanding premise (debug;
// spec.md §6 KB.rules()).
func (kb *KnowledgeBase) Rules() []*disc.Rule {
	return kb.rulesTree.Rules()
}
