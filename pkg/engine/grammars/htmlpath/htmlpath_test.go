package htmlpath

import (
	"strings"
	"testing"

	"github.com/syntreenet/engine/pkg/engine/syntagm"
)

func TestTokenIsVariable(t *testing.T) {
	if !Token("?v1").IsVariable() {
		t.Error(`Token("?v1").IsVariable() = false, want true`)
	}
	if Token("div").IsVariable() {
		t.Error(`Token("div").IsVariable() = true, want false`)
	}
}

func TestRoundTrip(t *testing.T) {
	g := Grammar{}
	b := New("html", "body", "p", "hello")
	if err := syntagm.VerifyRoundTrip(g, b); err != nil {
		t.Errorf("VerifyRoundTrip: %v", err)
	}
}

func TestExtractFacts(t *testing.T) {
	doc := `<html><body><p>hello</p><p>world</p></body></html>`
	facts, err := ExtractFacts(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ExtractFacts: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("got %d facts, want 2: %v", len(facts), facts)
	}
	var texts []string
	for _, f := range facts {
		texts = append(texts, f.String())
	}
	wantHello := "html / body / p / hello"
	wantWorld := "html / body / p / world"
	if texts[0] != wantHello && texts[1] != wantHello {
		t.Errorf("missing breadcrumb %q among %v", wantHello, texts)
	}
	if texts[0] != wantWorld && texts[1] != wantWorld {
		t.Errorf("missing breadcrumb %q among %v", wantWorld, texts)
	}
}

func TestExtractFactsSkipsWhitespaceOnlyText(t *testing.T) {
	doc := `<html><body>   <p>hi</p>

	</body></html>`
	facts, err := ExtractFacts(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ExtractFacts: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("got %d facts, want 1: %v", len(facts), facts)
	}
}

func TestBreadcrumbTrail(t *testing.T) {
	b := New("html", "body", "p", "hello")
	if got, want := b.Trail(), "html / body / p"; got != want {
		t.Errorf("Trail() = %q, want %q", got, want)
	}
}
