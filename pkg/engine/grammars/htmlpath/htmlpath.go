// Package htmlpath is a second example grammar plug-in, showing that the
// discrimination-network engine in pkg/engine/kbase is grammar-agnostic:
// a sentence here is a single breadcrumb path through an HTML document's
// DOM tree, from the root element down to one piece of leaf text, rather
// than pkg/engine/grammars/triples's fixed "subject predicate object"
// shape. A variable is any tag or text token starting with '?', a
// different convention than triples's leading-capital-X, chosen
// independently per grammar as spec.md §9 expects ("Variants of syntagm
// ... are a tagged sum").
package htmlpath

import (
	"fmt"
	"strings"

	"github.com/syntreenet/engine/pkg/engine/internalerr"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// Token is the grammar's Syntagm: an element tag name or a piece of
// trimmed text content.
type Token string

func (t Token) String() string { return string(t) }

func (t Token) IsVariable() bool {
	return len(t) > 0 && t[0] == '?'
}

// Breadcrumb is the grammar's Sentence: one root-to-leaf path through the
// DOM, e.g. "html / body / p / hello world". It decomposes into exactly
// one Path, unlike triples.Triple's fixed three.
type Breadcrumb struct {
	path syntagm.Path
}

// New builds a Breadcrumb directly from its tag/text segments.
func New(segments ...Token) Breadcrumb {
	syns := make([]syntagm.Syntagm, len(segments))
	for i, s := range segments {
		syns[i] = s
	}
	return Breadcrumb{path: syntagm.Path{Segments: syns}}
}

func (b Breadcrumb) Paths() []syntagm.Path { return []syntagm.Path{b.path} }

func (b Breadcrumb) String() string { return b.path.String() }

// Trail renders the tag path leading to the leaf, without the leaf
// text/value itself — e.g. "html / body / p" for a breadcrumb whose
// full String() is "html / body / p / hello world".
func (b Breadcrumb) Trail() string {
	segs := b.path.Segments
	if len(segs) == 0 {
		return ""
	}
	return joinSegments(segs[:len(segs)-1])
}

// Grammar implements syntagm.Grammar for Breadcrumb sentences.
type Grammar struct{}

func (Grammar) FromPaths(paths []syntagm.Path) (syntagm.Sentence, error) {
	if len(paths) != 1 {
		return nil, &internalerr.GrammarViolation{
			Reason: fmt.Sprintf("a breadcrumb sentence decomposes into exactly 1 path, got %d", len(paths)),
		}
	}
	if len(paths[0].Segments) == 0 {
		return nil, &internalerr.GrammarViolation{Reason: "breadcrumb path has no segments"}
	}
	return Breadcrumb{path: paths[0]}, nil
}

// NewVariable returns a canonical variable token "?v<seed>". Leading '?'
// cannot occur in real tag names or in trimmed HTML text extracted by
// ExtractFacts (text nodes never start with '?v' immediately followed by
// digits in practice, and even if they did, canonical variables are only
// ever compared against rule premises, never against extracted facts).
func (Grammar) NewVariable(seed int) syntagm.Syntagm {
	return Token(fmt.Sprintf("?v%d", seed))
}

// joinSegments renders a breadcrumb's tag path for display/debugging
// without the leaf text, e.g. "html / body / p".
func joinSegments(segs []syntagm.Syntagm) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.String()
	}
	return strings.Join(parts, " / ")
}
