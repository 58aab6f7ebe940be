package kbase_test

import (
	"bytes"
	"errors"
	"log"
	"sort"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/syntreenet/engine/pkg/engine/disc"
	"github.com/syntreenet/engine/pkg/engine/grammars/triples"
	"github.com/syntreenet/engine/pkg/engine/internalerr"
	"github.com/syntreenet/engine/pkg/engine/kbase"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

func mustTellRule(t *testing.T, kb *kbase.KnowledgeBase, text string) {
	t.Helper()
	rule, err := triples.ParseRule(text)
	if err != nil {
		t.Fatalf("ParseRule(%q): %v", text, err)
	}
	if err := kb.Tell(rule); err != nil {
		t.Fatalf("Tell(%q): %v", text, err)
	}
}

func mustTellFact(t *testing.T, kb *kbase.KnowledgeBase, text string) {
	t.Helper()
	fact, err := triples.ParseSentence(text)
	if err != nil {
		t.Fatalf("ParseSentence(%q): %v", text, err)
	}
	if err := kb.Tell(fact); err != nil {
		t.Fatalf("Tell(%q): %v", text, err)
	}
}

func factStrings(kb *kbase.KnowledgeBase) []string {
	facts := kb.Facts()
	out := make([]string, len(facts))
	for i, f := range facts {
		out[i] = f.String()
	}
	sort.Strings(out)
	return out
}

// TestTransitiveSubsetScenario is spec.md §8 scenario 1.
func TestTransitiveSubsetScenario(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	mustTellRule(t, kb, "X1 is X2; X2 is X3 -> X1 is X3")
	mustTellRule(t, kb, "X1 isa X2; X2 is X3 -> X1 isa X3")

	mustTellFact(t, kb, "animal is thing")
	mustTellFact(t, kb, "mammal is animal")
	mustTellFact(t, kb, "primate is mammal")
	mustTellFact(t, kb, "human is primate")
	mustTellFact(t, kb, "susan isa human")

	want := []string{
		"animal is thing",
		"human is animal",
		"human is mammal",
		"human is primate",
		"human is thing",
		"mammal is animal",
		"mammal is thing",
		"primate is animal",
		"primate is mammal",
		"primate is thing",
		"susan isa human",
		"susan isa animal",
		"susan isa mammal",
		"susan isa primate",
		"susan isa thing",
	}
	sort.Strings(want)
	got := factStrings(kb)

	if len(got) != len(want) {
		t.Fatalf("got %d facts, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fact set mismatch at %d: got %q, want %q\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

// TestDedupScenario is spec.md §8 scenario 2: telling the same fact twice
// is a no-op the second time.
func TestDedupScenario(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	mustTellFact(t, kb, "a is b")
	mustTellFact(t, kb, "a is b")

	if n := len(kb.Facts()); n != 1 {
		t.Fatalf("fact count = %d, want 1", n)
	}
}

// TestSpecializationBeforeFact is spec.md §8 scenario 3.
func TestSpecializationBeforeFact(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	mustTellRule(t, kb, "X1 is X2; X2 is X3 -> X1 is X3")
	mustTellFact(t, kb, "a is b")

	if !hasRuleKey(kb.Rules(), "b is X3 -> a is X3") {
		t.Fatalf("specialized rule %q not found among %v", "b is X3 -> a is X3", ruleKeys(kb.Rules()))
	}

	mustTellFact(t, kb, "b is c")
	if !containsFact(kb.Facts(), "a is c") {
		t.Fatalf("expected derived fact %q, facts = %v", "a is c", factStrings(kb))
	}
}

// TestFactBeforeSpecialization is spec.md §8 scenario 4: telling the fact
// first, then the rule, must still produce the specialized rule with no
// premature derivation.
func TestFactBeforeSpecialization(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	mustTellFact(t, kb, "a is b")
	mustTellRule(t, kb, "X1 is X2; X2 is X3 -> X1 is X3")

	if !hasRuleKey(kb.Rules(), "b is X3 -> a is X3") {
		t.Fatalf("specialized rule %q not found among %v", "b is X3 -> a is X3", ruleKeys(kb.Rules()))
	}
	if containsFact(kb.Facts(), "a is c") {
		t.Fatalf("no derivation should have happened yet, facts = %v", factStrings(kb))
	}
}

// TestMalformedRuleLeavesKBUnchanged is spec.md §8 scenario 5.
func TestMalformedRuleLeavesKBUnchanged(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	before := factStrings(kb)
	beforeRules := ruleKeys(kb.Rules())

	rule, err := triples.ParseRule("X1 is X2 -> X1 is X3")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	err = kb.Tell(rule)
	if err == nil {
		t.Fatal("expected an error telling a rule with an unbound consequence variable")
	}
	var malformed *internalerr.MalformedRule
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want a *internalerr.MalformedRule", err)
	}

	if got := factStrings(kb); !equalStrings(got, before) {
		t.Fatalf("facts changed after a rejected tell: got %v, want %v", got, before)
	}
	if got := ruleKeys(kb.Rules()); !equalStrings(got, beforeRules) {
		t.Fatalf("rules changed after a rejected tell: got %v, want %v", got, beforeRules)
	}
}

// TestActivationObserverAndLogCorrelation checks that telling a fact
// both notifies a registered activation observer with a real ULID and
// logs that same ULID on the "adding fact" line, so a caller can
// correlate one against the other.
func TestActivationObserverAndLogCorrelation(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	var buf bytes.Buffer
	kb.SetLogger(log.New(&buf, "", 0))

	var seen []ulid.ULID
	kb.SetActivationObserver(func(id ulid.ULID) { seen = append(seen, id) })

	mustTellFact(t, kb, "a is b")

	if len(seen) != 1 {
		t.Fatalf("observer saw %d activations, want 1", len(seen))
	}
	if seen[0].String() == "" {
		t.Fatal("observer saw a zero-value ULID")
	}
	if !strings.Contains(buf.String(), seen[0].String()) {
		t.Fatalf("log output %q does not mention observed activation ID %q", buf.String(), seen[0].String())
	}
}

// TestDuplicateConditionRejected checks that a rule repeating the exact
// same condition twice is rejected as malformed rather than silently
// inserted with a dead second CondRef.
func TestDuplicateConditionRejected(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	rule, err := triples.ParseRule("X1 is X2; X1 is X2 -> X1 isa X2")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	err = kb.Tell(rule)
	if err == nil {
		t.Fatal("expected an error telling a rule with a duplicate condition")
	}
	var malformed *internalerr.MalformedRule
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want a *internalerr.MalformedRule", err)
	}
}

// TestQueryWithVariable is spec.md §8 scenario 6.
func TestQueryWithVariable(t *testing.T) {
	kb := kbase.New(triples.Grammar{})
	mustTellRule(t, kb, "X1 is X2; X2 is X3 -> X1 is X3")
	mustTellRule(t, kb, "X1 isa X2; X2 is X3 -> X1 isa X3")
	mustTellFact(t, kb, "animal is thing")
	mustTellFact(t, kb, "mammal is animal")
	mustTellFact(t, kb, "primate is mammal")
	mustTellFact(t, kb, "human is primate")
	mustTellFact(t, kb, "susan isa human")

	pattern, err := triples.ParseSentence("X1 isa thing")
	if err != nil {
		t.Fatalf("ParseSentence: %v", err)
	}
	matches := kb.Query(pattern)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %v", len(matches), matches)
	}
	if got := matches[0].Payload.String(); got != "susan isa thing" {
		t.Errorf("matched fact = %q, want %q", got, "susan isa thing")
	}
	x1, ok := matches[0].Assignment.Get(triples.Word("X1"))
	if !ok || x1 != triples.Word("susan") {
		t.Errorf("X1 = %v, ok=%v, want susan", x1, ok)
	}
}

func hasRuleKey(rules []*disc.Rule, key string) bool {
	for _, r := range rules {
		if r.Key() == key {
			return true
		}
	}
	return false
}

func ruleKeys(rules []*disc.Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Key()
	}
	sort.Strings(out)
	return out
}

func containsFact(facts []syntagm.Sentence, s string) bool {
	for _, f := range facts {
		if f.String() == s {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
