// Package memjournal is an in-memory audit.Journal, for tests and other
// callers that don't need a file on disk.
package memjournal

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/syntreenet/engine/pkg/engine/audit"
)

// Journal is an in-memory implementation of audit.Journal.
type Journal struct {
	mu      sync.RWMutex
	entries []audit.Entry
	entropy *ulid.MonotonicEntropy
}

// New creates an empty in-memory journal.
func New() *Journal {
	return &Journal{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Close implements audit.Journal.
func (j *Journal) Close() error { return nil }

// Record implements audit.Journal.
func (j *Journal) Record(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Now(), j.entropy).String()
	}
	j.entries = append(j.entries, e)
	return e, nil
}

// Entries implements audit.Journal.
func (j *Journal) Entries(ctx context.Context) ([]audit.Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]audit.Entry, len(j.entries))
	copy(out, j.entries)
	return out, nil
}

// EntriesByKind implements audit.Journal.
func (j *Journal) EntriesByKind(ctx context.Context, kind audit.EntryKind) ([]audit.Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []audit.Entry
	for _, e := range j.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out, nil
}
