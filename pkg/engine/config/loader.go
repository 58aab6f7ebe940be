package config

import (
	"fmt"
	"os"

	"github.com/syntreenet/engine/pkg/engine/grammars/htmlpath"
	"github.com/syntreenet/engine/pkg/engine/grammars/triples"
	"github.com/syntreenet/engine/pkg/engine/kbase"
	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

// Loader builds a ready-to-query knowledge base from a RuleFile path.
type Loader struct {
	RuleFilePath string
}

// Load reads the rule file, then tells its rules (if any) and then its
// facts — rules first so every fact that follows can specialize against
// them as it is told (see RuleFile's doc comment). The facts are the
// Facts list for the triples grammar, or the facts extracted from
// HTMLSources for the htmlpath grammar; the other list is not read.
func (l *Loader) Load() (*kbase.KnowledgeBase, error) {
	rf, err := LoadRuleFile(l.RuleFilePath)
	if err != nil {
		return nil, err
	}

	grammar, err := grammarFor(rf.Grammar)
	if err != nil {
		return nil, err
	}
	kb := kbase.New(grammar)

	for _, text := range rf.Rules {
		rule, err := triples.ParseRule(text)
		if err != nil {
			return nil, fmt.Errorf("config: parse rule %q: %w", text, err)
		}
		if err := kb.Tell(rule); err != nil {
			return nil, fmt.Errorf("config: tell rule %q: %w", text, err)
		}
	}

	var facts []syntagm.Sentence
	switch rf.Grammar {
	case GrammarHTMLPath:
		for _, src := range rf.HTMLSources {
			extracted, err := extractHTMLFile(src)
			if err != nil {
				return nil, fmt.Errorf("config: extract %q: %w", src, err)
			}
			facts = append(facts, extracted...)
		}
	default:
		for _, text := range rf.Facts {
			fact, err := triples.ParseSentence(text)
			if err != nil {
				return nil, fmt.Errorf("config: parse fact %q: %w", text, err)
			}
			facts = append(facts, fact)
		}
	}

	for _, fact := range facts {
		if err := kb.Tell(fact); err != nil {
			return nil, fmt.Errorf("config: tell fact %q: %w", fact.String(), err)
		}
	}

	return kb, nil
}

func grammarFor(name GrammarName) (syntagm.Grammar, error) {
	switch name {
	case GrammarTriples, "":
		return triples.Grammar{}, nil
	case GrammarHTMLPath:
		return htmlpath.Grammar{}, nil
	default:
		return nil, fmt.Errorf("config: unknown grammar %q", name)
	}
}

func extractHTMLFile(path string) ([]syntagm.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return htmlpath.ExtractFacts(f)
}
