package memjournal

import (
	"context"
	"testing"
	"time"

	"github.com/syntreenet/engine/pkg/engine/audit"
)

func TestRecordAssignsID(t *testing.T) {
	j := New()
	e, err := j.Record(context.Background(), audit.Entry{Kind: audit.KindFact, Text: "a is b", At: time.Now()})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.ID == "" {
		t.Error("expected Record to assign a non-empty ID")
	}
}

func TestEntriesPreservesOrder(t *testing.T) {
	j := New()
	ctx := context.Background()
	j.Record(ctx, audit.Entry{Kind: audit.KindRule, Text: "rule 1"})
	j.Record(ctx, audit.Entry{Kind: audit.KindFact, Text: "fact 1"})
	j.Record(ctx, audit.Entry{Kind: audit.KindFact, Text: "fact 2"})

	entries, err := j.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Text != "rule 1" || entries[2].Text != "fact 2" {
		t.Errorf("unexpected order: %+v", entries)
	}
}

func TestEntriesByKind(t *testing.T) {
	j := New()
	ctx := context.Background()
	j.Record(ctx, audit.Entry{Kind: audit.KindRule, Text: "rule 1"})
	j.Record(ctx, audit.Entry{Kind: audit.KindFact, Text: "fact 1"})

	facts, err := j.EntriesByKind(ctx, audit.KindFact)
	if err != nil {
		t.Fatalf("EntriesByKind: %v", err)
	}
	if len(facts) != 1 || facts[0].Text != "fact 1" {
		t.Errorf("unexpected result: %+v", facts)
	}
}
