package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRuleFileDefaultsToTriples(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")

	content := `facts:
  - a is b
  - b is c
rules:
  - "X1 is X2; X2 is X3 -> X1 is X3"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadRuleFile(path)
	if err != nil {
		t.Fatalf("LoadRuleFile: %v", err)
	}
	if rf.Grammar != GrammarTriples {
		t.Errorf("Grammar = %q, want %q", rf.Grammar, GrammarTriples)
	}
	if len(rf.Facts) != 2 {
		t.Errorf("got %d facts, want 2", len(rf.Facts))
	}
	if len(rf.Rules) != 1 {
		t.Errorf("got %d rules, want 1", len(rf.Rules))
	}
}

func TestLoadRuleFileHTMLPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")

	content := `grammar: htmlpath
html_sources:
  - page.html
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadRuleFile(path)
	if err != nil {
		t.Fatalf("LoadRuleFile: %v", err)
	}
	if rf.Grammar != GrammarHTMLPath {
		t.Errorf("Grammar = %q, want %q", rf.Grammar, GrammarHTMLPath)
	}
	if len(rf.HTMLSources) != 1 || rf.HTMLSources[0] != "page.html" {
		t.Errorf("HTMLSources = %v, want [page.html]", rf.HTMLSources)
	}
}

func TestLoadRuleFileHTMLPathRejectsRules(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rules.yaml")

	content := `grammar: htmlpath
rules:
  - "X1 is X2 -> X1 is X2"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRuleFile(path); err == nil {
		t.Error("expected an error: htmlpath grammar with rules")
	}
}

func TestLoadRuleFileNonExistent(t *testing.T) {
	if _, err := LoadRuleFile("/nonexistent/rules.yaml"); err == nil {
		t.Error("should error on non-existent file")
	}
}

func TestLoadRuleFileMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(path, []byte("facts: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadRuleFile(path); err == nil {
		t.Error("should error on malformed YAML")
	}
}

func TestLoadRuleFileEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadRuleFile(path)
	if err != nil {
		t.Fatalf("LoadRuleFile: %v", err)
	}
	if rf.Grammar != GrammarTriples {
		t.Errorf("Grammar = %q, want default %q", rf.Grammar, GrammarTriples)
	}
	if len(rf.Facts) != 0 || len(rf.Rules) != 0 {
		t.Errorf("expected no facts/rules, got %v / %v", rf.Facts, rf.Rules)
	}
}
