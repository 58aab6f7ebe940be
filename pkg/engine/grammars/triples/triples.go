// Package triples is the example grammar spec.md §8's end-to-end
// scenarios are written against: a sentence is a "subject predicate
// object" triple (e.g. "mammal is animal"), and a word is a
// variable exactly when it begins with an uppercase 'X' (e.g. "X1",
// "X2"). It exists to exercise the engine, not to be a general-purpose
// RDF-style store.
package triples

import (
	"fmt"

	"github.com/syntreenet/engine/pkg/engine/internalerr"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// Word is the grammar's only Syntagm: a bare token. A Word is a variable
// iff it starts with an uppercase 'X' — spec.md §8's scenarios rely on
// this directly ("words are variables when they begin with a capital
// X").
type Word string

func (w Word) String() string { return string(w) }

func (w Word) IsVariable() bool {
	return len(w) > 0 && w[0] == 'X'
}

// role tags the position a Word occupies within a Triple. Roles are
// ground Words by construction, so they are never mistaken for
// variables regardless of how a user names their own words.
type role Word

const (
	roleSubject   role = "subject"
	rolePredicate role = "predicate"
	roleObject    role = "object"
)

// Triple is the grammar's Sentence: a ground-or-variable (subject,
// predicate, object) tuple.
type Triple struct {
	Subject   Word
	Predicate Word
	Object    Word
}

// New builds a Triple directly, without parsing.
func New(subject, predicate, object Word) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s", t.Subject, t.Predicate, t.Object)
}

// Paths decomposes the triple into its three root-to-leaf paths, one per
// role, each a 2-segment path of (role tag, word) — spec.md §3's Path
// entity.
func (t Triple) Paths() []syntagm.Path {
	return []syntagm.Path{
		syntagm.NewPath(Word(roleSubject), t.Subject),
		syntagm.NewPath(Word(rolePredicate), t.Predicate),
		syntagm.NewPath(Word(roleObject), t.Object),
	}
}

// Grammar implements syntagm.Grammar for Triple sentences.
type Grammar struct{}

// FromPaths rebuilds a Triple from exactly the three paths Triple.Paths
// produces, in any order — spec.md §6's round-trip requirement
// (FromPaths(s.Paths()) must equal s) does not require order-sensitivity,
// and pkg/engine/pathalg.Substitute preserves path order, but rule
// specialization builds path sets independently, so FromPaths is
// defensive about order here.
func (Grammar) FromPaths(paths []syntagm.Path) (syntagm.Sentence, error) {
	if len(paths) != 3 {
		return nil, &internalerr.GrammarViolation{
			Reason: fmt.Sprintf("triple must decompose into exactly 3 paths, got %d", len(paths)),
		}
	}
	var t Triple
	seen := map[role]bool{}
	for _, p := range paths {
		if len(p.Segments) != 2 {
			return nil, &internalerr.GrammarViolation{
				Reason: fmt.Sprintf("triple path must have 2 segments, got %d", len(p.Segments)),
			}
		}
		roleSeg, ok := p.Segments[0].(Word)
		if !ok {
			return nil, &internalerr.GrammarViolation{Reason: "triple path role segment is not a Word"}
		}
		r := role(roleSeg)
		if seen[r] {
			return nil, &internalerr.GrammarViolation{Reason: fmt.Sprintf("duplicate role %q in path set", r)}
		}
		seen[r] = true
		word, ok := p.Value().(Word)
		if !ok {
			return nil, &internalerr.GrammarViolation{Reason: "triple path value is not a Word"}
		}
		switch r {
		case roleSubject:
			t.Subject = word
		case rolePredicate:
			t.Predicate = word
		case roleObject:
			t.Object = word
		default:
			return nil, &internalerr.GrammarViolation{Reason: fmt.Sprintf("unknown triple role %q", r)}
		}
	}
	return t, nil
}

// NewVariable returns a canonical variable word "X__<seed>". It starts
// with an uppercase 'X', so Word.IsVariable reports it as a variable
// like any user-written one, but the "__" cannot appear in a word a
// human would type for one of spec.md §8's scenarios, so it never
// collides with a real rule's own variable names.
func (Grammar) NewVariable(seed int) syntagm.Syntagm {
	return Word(fmt.Sprintf("X__%d", seed))
}
