package sqlitejournal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/syntreenet/engine/pkg/engine/audit"
)

func TestOpenAndRecord(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	e, err := j.Record(ctx, audit.Entry{Kind: audit.KindFact, Text: "a is b", At: time.Now()})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.ID == "" {
		t.Error("expected Record to assign a non-empty ID")
	}

	entries, err := j.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "a is b" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2026, 8, 6, 14, 3, 5, 0, time.UTC)
	got := FormatTimestamp(audit.Entry{At: at})
	want := "2026-08-06 14:03:05"
	if got != want {
		t.Errorf("FormatTimestamp = %q, want %q", got, want)
	}
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	j.Record(ctx, audit.Entry{Kind: audit.KindRule, Text: "X1 is X2 -> X1 is X2"})
	j.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.EntriesByKind(ctx, audit.KindRule)
	if err != nil {
		t.Fatalf("EntriesByKind: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries after reopen, want 1", len(entries))
	}
}
