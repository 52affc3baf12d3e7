package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// MetaStore holds store-internal metadata in SQLite: per-address
// invocation counters for the reverify policy and an append-only write
// journal. None of this is part of any record's visible body.
type MetaStore struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// JournalEntry is one recorded mutation.
type JournalEntry struct {
	ID       string    `json:"id"`
	Op       string    `json:"op"`
	Location string    `json:"location"`
	At       time.Time `json:"at"`
}

// NewMetaStore opens or creates the metadata database at the given path.
func NewMetaStore(dbPath string) (*MetaStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Monotonic entropy keeps journal IDs ordered even within one
	// millisecond, so "ORDER BY id" is "ORDER BY time".
	m := &MetaStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := m.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return m, nil
}

func (m *MetaStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), m.entropy).String()
}

func (m *MetaStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS counters (
		location    TEXT PRIMARY KEY,
		invocations INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS journal (
		id       TEXT PRIMARY KEY,
		op       TEXT NOT NULL,
		location TEXT NOT NULL,
		at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_journal_location ON journal(location);
	CREATE INDEX IF NOT EXISTS idx_journal_at ON journal(at DESC);
	`
	_, err := m.db.Exec(schema)
	return err
}

// BumpInvocations increments and returns the write counter for a
// location. The counter survives process restarts so "every Nth
// invocation" keeps its meaning across sessions.
func (m *MetaStore) BumpInvocations(ctx context.Context, location string) (int, error) {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO counters (location, invocations) VALUES (?, 1)
		 ON CONFLICT(location) DO UPDATE SET invocations = invocations + 1`,
		location)
	if err != nil {
		return 0, fmt.Errorf("bump counter: %w", err)
	}
	var n int
	err = m.db.QueryRowContext(ctx,
		`SELECT invocations FROM counters WHERE location = ?`, location).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return n, nil
}

// Invocations returns the current counter for a location (0 if never
// written).
func (m *MetaStore) Invocations(ctx context.Context, location string) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx,
		`SELECT invocations FROM counters WHERE location = ?`, location).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return n, nil
}

// ClearLocation drops counter state for a deleted record so a future
// record at the same address starts from zero.
func (m *MetaStore) ClearLocation(ctx context.Context, location string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM counters WHERE location = ?`, location)
	if err != nil {
		return fmt.Errorf("clear counter: %w", err)
	}
	return nil
}

// LogWrite appends a mutation to the journal.
func (m *MetaStore) LogWrite(ctx context.Context, op, location string) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO journal (id, op, location, at) VALUES (?, ?, ?, ?)`,
		m.newID(), op, location, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("log write: %w", err)
	}
	return nil
}

// RecentWrites returns the newest journal entries, latest first.
func (m *MetaStore) RecentWrites(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, op, location, at FROM journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var at string
		if err := rows.Scan(&e.ID, &e.Op, &e.Location, &at); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339, at)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// WriteCounts returns journal totals grouped by operation.
func (m *MetaStore) WriteCounts(ctx context.Context) (map[string]int, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT op, COUNT(*) FROM journal GROUP BY op`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var op string
		var n int
		if err := rows.Scan(&op, &n); err != nil {
			return nil, err
		}
		counts[op] = n
	}
	return counts, rows.Err()
}

// Close closes the metadata database.
func (m *MetaStore) Close() error {
	return m.db.Close()
}
