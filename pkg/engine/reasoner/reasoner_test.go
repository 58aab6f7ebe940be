package reasoner

import "testing"

func TestBasicFacts(t *testing.T) {
	r := New()

	if err := r.AddFact("is_a", "bert", "transformer"); err != nil {
		t.Fatalf("AddFact: %v", err)
	}
	if err := r.AddFact("is_a", "transformer", "neural-network"); err != nil {
		t.Fatalf("AddFact: %v", err)
	}

	if !r.Query("is_a", "bert", "transformer") {
		t.Error("expected bert is_a transformer")
	}
	if !r.Query("is_a", "bert", "neural-network") {
		t.Error("expected transitive: bert is_a neural-network")
	}
	if r.Query("is_a", "neural-network", "bert") {
		t.Error("relation should not go backwards")
	}
}

func TestQueryAll(t *testing.T) {
	r := New()
	r.AddFact("is_a", "bert", "transformer")
	r.AddFact("is_a", "transformer", "neural-network")
	r.AddFact("is_a", "neural-network", "model")

	want := map[string]bool{"transformer": true, "neural-network": true, "model": true}
	got := r.QueryAll("is_a", "bert")
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d: %v", len(got), len(want), got)
	}
	for _, obj := range got {
		if !want[obj] {
			t.Errorf("unexpected result: %s", obj)
		}
	}
}

func TestUsedForIsNotTransitive(t *testing.T) {
	r := New()
	r.AddFact("used_for", "bert", "nlp")
	r.AddFact("used_for", "nlp", "search")

	if r.Query("used_for", "bert", "search") {
		t.Error("used_for is not in the transitive relation set and must not chain")
	}
}

func TestFindPath(t *testing.T) {
	r := New()
	r.AddFact("used_for", "bert", "nlp")
	r.AddFact("used_for", "nlp", "search")

	path := r.FindPath("bert", "search")
	if len(path) != 2 {
		t.Fatalf("got path length %d, want 2: %v", len(path), path)
	}
	if path[0].From != "bert" || path[0].To != "nlp" {
		t.Errorf("unexpected first hop: %+v", path[0])
	}
	if path[1].From != "nlp" || path[1].To != "search" {
		t.Errorf("unexpected second hop: %+v", path[1])
	}
}

func TestFindPathNone(t *testing.T) {
	r := New()
	r.AddFact("used_for", "bert", "nlp")

	if path := r.FindPath("bert", "search"); path != nil {
		t.Errorf("expected no path, got %v", path)
	}
}

func TestExplain(t *testing.T) {
	r := New()
	r.AddFact("used_for", "bert", "nlp")
	r.AddFact("used_for", "nlp", "search")

	explanation := r.Explain("used_for", "bert", "search")
	if explanation != "cannot prove used_for(bert, search)" {
		t.Errorf("used_for does not chain, explanation should say so: %q", explanation)
	}

	r.AddFact("is_a", "bert", "transformer")
	explanation = r.Explain("is_a", "bert", "transformer")
	if explanation != "is_a(bert, transformer) is directly known" {
		t.Errorf("unexpected explanation: %q", explanation)
	}
}

func TestLoadRules(t *testing.T) {
	r := New()

	rules := `
# a tiny taxonomy
is_a(bert, transformer)
is_a(transformer, neural-network)

related_to(transformer, attention-mechanism)
`
	if err := r.LoadRules(rules); err != nil {
		t.Fatalf("LoadRules: %v", err)
	}

	if !r.Query("is_a", "bert", "neural-network") {
		t.Error("expected transitive is_a derived from loaded rules")
	}
	if !r.Query("related_to", "transformer", "attention-mechanism") {
		t.Error("expected loaded related_to fact")
	}
}

func TestLoadRulesMalformedLine(t *testing.T) {
	r := New()
	if err := r.LoadRules("not_a_fact_line\n"); err == nil {
		t.Error("expected an error for a line with no parentheses")
	}
}
