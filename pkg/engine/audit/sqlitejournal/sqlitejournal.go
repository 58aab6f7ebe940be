// Package sqlitejournal is a SQLite-backed audit.Journal, for
// cmd/engine-repl sessions and cmd/engine-bench runs that want their
// tell/timing history to survive a restart.
package sqlitejournal

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ncruces/go-strftime"
	"github.com/oklog/ulid/v2"

	"github.com/syntreenet/engine/pkg/engine/audit"
)

// Journal is a SQLite implementation of audit.Journal.
type Journal struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// Open opens (creating if necessary) a SQLite-backed journal at path,
// with WAL mode enabled, mirroring the teacher's OpenSQLite.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	text TEXT NOT NULL,
	at TEXT NOT NULL,
	duration_ns INTEGER NOT NULL DEFAULT 0
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Close implements audit.Journal.
func (j *Journal) Close() error { return j.db.Close() }

// Record implements audit.Journal.
func (j *Journal) Record(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	if e.ID == "" {
		e.ID = ulid.MustNew(ulid.Now(), j.entropy).String()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO journal_entries (id, kind, text, at, duration_ns) VALUES (?, ?, ?, ?, ?);
`, e.ID, string(e.Kind), e.Text, e.At.UTC().Format(time.RFC3339Nano), e.Duration.Nanoseconds())
	if err != nil {
		return audit.Entry{}, err
	}
	return e, nil
}

// Entries implements audit.Journal.
func (j *Journal) Entries(ctx context.Context) ([]audit.Entry, error) {
	return j.query(ctx, `SELECT id, kind, text, at, duration_ns FROM journal_entries ORDER BY at ASC`)
}

// EntriesByKind implements audit.Journal.
func (j *Journal) EntriesByKind(ctx context.Context, kind audit.EntryKind) ([]audit.Entry, error) {
	return j.query(ctx, `SELECT id, kind, text, at, duration_ns FROM journal_entries WHERE kind = ? ORDER BY at ASC`, string(kind))
}

func (j *Journal) query(ctx context.Context, query string, args ...any) ([]audit.Entry, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var kind, at string
		var durationNs int64
		if err := rows.Scan(&e.ID, &kind, &e.Text, &at, &durationNs); err != nil {
			return nil, err
		}
		e.Kind = audit.EntryKind(kind)
		e.Duration = time.Duration(durationNs)
		if parsed, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			e.At = parsed
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FormatTimestamp renders an entry's timestamp the way engine-bench's
// report does, e.g. "2026-08-06 14:03:05".
func FormatTimestamp(e audit.Entry) string {
	return strftime.Format("%Y-%m-%d %H:%M:%S", e.At)
}
