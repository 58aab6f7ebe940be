// Package config loads the YAML documents cmd/engine-repl reads at
// startup (its -rules flag): which example grammar to parse
// sentences with, and the facts/rules to tell a knowledge base before
// it starts serving queries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GrammarName selects one of pkg/engine/grammars' example plug-ins.
type GrammarName string

const (
	GrammarTriples  GrammarName = "triples"
	GrammarHTMLPath GrammarName = "htmlpath"
)

// RuleFile is the on-disk shape a knowledge base is bootstrapped from.
// Rules is parsed and told before Facts, matching spec.md §8 scenario
// 3's "specialization before fact" ordering: a rule file usually
// describes a fixed body of domain knowledge, and telling the rules
// first lets every fact immediately trigger whatever specialization it
// can.
//
// HTMLSources only applies when Grammar is "htmlpath": each path is read
// and run through htmlpath.ExtractFacts, and Rules must be empty (rule
// text is only ever parsed with the triples grammar's ParseRule; there
// is no rule parser for htmlpath breadcrumbs).
type RuleFile struct {
	Grammar     GrammarName `yaml:"grammar"`
	Rules       []string    `yaml:"rules"`
	Facts       []string    `yaml:"facts"`
	HTMLSources []string    `yaml:"html_sources"`
}

// LoadRuleFile reads and parses a rule file from path.
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read rule file: %w", err)
	}

	var rf RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("config: parse rule file: %w", err)
	}
	if rf.Grammar == "" {
		rf.Grammar = GrammarTriples
	}
	if rf.Grammar == GrammarHTMLPath && len(rf.Rules) > 0 {
		return nil, fmt.Errorf("config: rule file %q: the htmlpath grammar has no rule syntax, but %d rules were given", path, len(rf.Rules))
	}
	return &rf, nil
}
