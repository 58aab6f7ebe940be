// Package audit defines the persisted tell-journal external callers may
// opt into. The core engine (pkg/engine/kbase) has no persistence of its
// own — spec.md §6 names that a non-goal — but cmd/engine-repl and
// cmd/engine-bench are explicit external collaborators free to keep
// their own record of what they told a knowledge base and how long it
// took, which is what a Journal is for.
package audit

import (
	"context"
	"time"
)

// EntryKind distinguishes what a journal entry records.
type EntryKind string

const (
	KindFact        EntryKind = "fact"
	KindRule        EntryKind = "rule"
	KindBenchSample EntryKind = "bench_sample"
)

// Entry is one journal record: a told fact or rule's text, or a
// benchmark timing sample, stamped with when it happened and how long
// the call that produced it took.
type Entry struct {
	ID       string
	Kind     EntryKind
	Text     string
	At       time.Time
	Duration time.Duration
}

// Journal is the interface both audit implementations satisfy.
type Journal interface {
	Close() error

	// Record appends an entry. Implementations assign Entry.ID if it is
	// empty; callers pass an empty ID unless replaying a prior journal.
	Record(ctx context.Context, e Entry) (Entry, error)

	// Entries returns every recorded entry, oldest first.
	Entries(ctx context.Context) ([]Entry, error)

	// EntriesByKind returns every recorded entry of one kind, oldest first.
	EntriesByKind(ctx context.Context, kind EntryKind) ([]Entry, error)
}
