// Package syntagm defines the capability contract that a grammar plug-in
// must satisfy for the discrimination-network engine in pkg/engine/kbase
// to index and match sentences against it. The engine never inspects a
// syntagm beyond these capabilities.
package syntagm

import "fmt"

// Syntagm is an atomic, hashable element of a sentence. A grammar supplies
// its own concrete type; the engine only ever compares syntagms with ==,
// hashes them as map keys, displays them, and asks whether they are
// variables.
type Syntagm interface {
	// String renders the syntagm for logging and rule/fact display
	// (spec.md §6's "adding fact ..." / "adding rule ..." lines).
	String() string

	// IsVariable reports whether this syntagm is a universally quantified
	// variable rather than a ground symbol.
	IsVariable() bool
}

// Sentence is a fact or a rule premise/consequence: a tree of syntagms
// that decomposes into a set of root-to-leaf Paths and can be rebuilt
// from them. Round-trip is required: FromPaths(s.Paths()) must equal s.
type Sentence interface {
	// Paths returns the root-to-leaf path tuples of the sentence's
	// syntactic tree, in the grammar's natural (but must be deterministic)
	// order.
	Paths() []Path

	// String renders the sentence for logging and display.
	String() string
}

// Grammar builds Sentence values back out of a path set. This is the
// other half of the plug-in contract (spec.md §6): a grammar type
// supplies FromPaths in addition to the Paths() method every Sentence
// exposes.
type Grammar interface {
	// FromPaths reconstructs a Sentence from a path set produced by one
	// of its own sentences' Paths(). Returns a GrammarViolation-flavored
	// error (see pkg/engine/internalerr) if the path set does not
	// describe a well-formed sentence for this grammar.
	FromPaths(paths []Path) (Sentence, error)

	// NewVariable returns a fresh syntagm that reports IsVariable() true,
	// derived deterministically from seed. Used by rule normalization
	// (SPEC_FULL.md §C.3) to rename a condition's variables to the
	// canonical NewVariable(1), NewVariable(2), ... before inserting it
	// into the rules tree.
	NewVariable(seed int) Syntagm
}

// Path is an ordered, non-empty tuple of syntagms from the root of a
// sentence's tree to one of its leaves. A path is itself hashable once
// its segments are. IsVariable, which drives discrimination-tree
// ordering and traversal, is computed from the terminal segment on each
// call; nothing is cached.
type Path struct {
	Segments []Syntagm
}

// NewPath builds a Path, panicking if segments is empty — an empty path
// cannot occur in a well-formed sentence and indicates a grammar bug.
func NewPath(segments ...Syntagm) Path {
	if len(segments) == 0 {
		panic("syntagm: empty path")
	}
	return Path{Segments: segments}
}

// Value returns the path's terminal (leaf) syntagm.
func (p Path) Value() Syntagm {
	return p.Segments[len(p.Segments)-1]
}

// IsVariable reports whether the path's terminal syntagm is a variable.
// Non-terminal variables are disallowed by construction (spec.md §3):
// a grammar must never emit a path whose value is ground but whose
// interior contains a variable that doesn't also terminate some other
// path.
func (p Path) IsVariable() bool {
	return p.Value().IsVariable()
}

// Key returns a value usable as a map key for this path: syntagm
// equality must already be Go ==-comparable (grammars are expected to
// use small value types, interned pointers, or strings as their
// concrete Syntagm implementation), so the path itself, converted to an
// array-backed key via String(), is what the discrimination tree hashes
// on. Grammars with exotic non-comparable syntagms should intern them.
func (p Path) Key() string {
	return p.String()
}

func (p Path) String() string {
	s := ""
	for i, seg := range p.Segments {
		if i > 0 {
			s += " / "
		}
		s += seg.String()
	}
	return s
}

// Equal reports whether two paths have identical length and
// position-wise equal segments.
func (p Path) Equal(other Path) bool {
	if len(p.Segments) != len(other.Segments) {
		return false
	}
	for i, seg := range p.Segments {
		if seg != other.Segments[i] {
			return false
		}
	}
	return true
}

// VerifyRoundTrip is a test helper exposed for grammar implementers:
// it checks FromPaths(s.Paths()) == s using String() as the equality
// proxy, since Sentence has no other required comparison.
func VerifyRoundTrip(g Grammar, s Sentence) error {
	rebuilt, err := g.FromPaths(s.Paths())
	if err != nil {
		return fmt.Errorf("syntagm: round-trip failed for %q: %w", s, err)
	}
	if rebuilt.String() != s.String() {
		return fmt.Errorf("syntagm: round-trip mismatch: %q != %q", rebuilt, s)
	}
	return nil
}
