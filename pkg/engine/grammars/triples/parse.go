package triples

import (
	"fmt"
	"strings"

	"github.com/syntreenet/engine/pkg/engine/disc"
	"github.com/syntreenet/engine/pkg/engine/internalerr"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// ParseSentence parses "subject predicate object" — exactly three
// whitespace-separated words — into a Triple. Used by cmd/engine-repl,
// pkg/engine/config's rule-file loader, and tests, to write spec.md §8's
// scenarios as plain text instead of Go struct literals.
func ParseSentence(text string) (Triple, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Triple{}, &internalerr.GrammarViolation{
			Reason: fmt.Sprintf("triple sentence %q must have exactly 3 words, got %d", text, len(fields)),
		}
	}
	return New(Word(fields[0]), Word(fields[1]), Word(fields[2])), nil
}

// ParseRule parses "cond1; cond2; ... -> cons1; cons2; ..." into a
// *disc.Rule, splitting conditions and consequences on "; " and the two
// halves on "->", matching the text spec.md §8's scenarios use (e.g.
// "X1 is X2; X2 is X3 -> X1 is X3").
func ParseRule(text string) (*disc.Rule, error) {
	halves := strings.SplitN(text, "->", 2)
	if len(halves) != 2 {
		return nil, &internalerr.GrammarViolation{
			Reason: fmt.Sprintf("rule text %q must contain exactly one \"->\"", text),
		}
	}
	conds, err := parseSentenceList(halves[0])
	if err != nil {
		return nil, err
	}
	conss, err := parseSentenceList(halves[1])
	if err != nil {
		return nil, err
	}
	return &disc.Rule{Conditions: conds, Consequences: conss}, nil
}

func parseSentenceList(text string) ([]syntagm.Sentence, error) {
	parts := strings.Split(text, ";")
	out := make([]syntagm.Sentence, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		t, err := ParseSentence(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, &internalerr.GrammarViolation{Reason: fmt.Sprintf("empty sentence list in %q", text)}
	}
	return out, nil
}
