package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-contentschema/pkg/schema"
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

const ddl = `CREATE TABLE IF NOT EXISTS snapshots (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	generated_at TEXT    NOT NULL,
	recorded_at  TEXT    NOT NULL,
	page_count   INTEGER NOT NULL,
	total_fields INTEGER NOT NULL,
	added        INTEGER NOT NULL,
	removed      INTEGER NOT NULL,
	modified     INTEGER NOT NULL,
	document     TEXT    NOT NULL
)`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Entry summarises one recorded snapshot.
type Entry struct {
	ID          int64
	GeneratedAt time.Time
	RecordedAt  time.Time
	PageCount   int
	TotalFields int
	Added       int
	Removed     int
	Modified    int
}

// Option customises Open.
type Option func(*Store)

// WithClock overrides the clock used for RecordedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is a snapshot log backed by a single SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating when needed) the store at path. Parent directories
// are created for file-backed stores.
func Open(path string, options ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: database path is required")
	}
	store := &Store{now: time.Now}
	for _, opt := range options {
		if opt != nil {
			opt(store)
		}
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	store.db = db
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends a snapshot and the diff that produced it.
func (s *Store) Record(ctx context.Context, snapshot schema.ProjectSchema, diff schema.SchemaDiff) (Entry, error) {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return Entry{}, fmt.Errorf("history: encode snapshot: %w", err)
	}

	entry := Entry{
		GeneratedAt: snapshot.GeneratedAt.UTC(),
		RecordedAt:  s.now().UTC(),
		PageCount:   snapshot.PageCount,
		TotalFields: snapshot.TotalFields,
		Added:       len(diff.Added),
		Removed:     len(diff.Removed),
		Modified:    len(diff.Modified),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (generated_at, recorded_at, page_count, total_fields, added, removed, modified, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.GeneratedAt.Format(time.RFC3339Nano),
		entry.RecordedAt.Format(time.RFC3339Nano),
		entry.PageCount, entry.TotalFields,
		entry.Added, entry.Removed, entry.Modified,
		string(document),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("history: insert: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("history: insert id: %w", err)
	}
	return entry, nil
}

// Latest returns the most recently recorded snapshot, or nil when the store
// is empty.
func (s *Store) Latest(ctx context.Context) (*schema.ProjectSchema, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: latest: %w", err)
	}

	var out schema.ProjectSchema
	if err := json.Unmarshal([]byte(document), &out); err != nil {
		return nil, fmt.Errorf("history: decode snapshot: %w", err)
	}
	return &out, nil
}

// List returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, generated_at, recorded_at, page_count, total_fields, added, removed, modified
		FROM snapshots ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			entry                 Entry
			generated, recordedAt string
		)
		if err := rows.Scan(&entry.ID, &generated, &recordedAt, &entry.PageCount, &entry.TotalFields,
			&entry.Added, &entry.Removed, &entry.Modified); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if entry.GeneratedAt, err = time.Parse(time.RFC3339Nano, generated); err != nil {
			return nil, fmt.Errorf("history: parse generated_at: %w", err)
		}
		if entry.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("history: parse recorded_at: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return out, nil
}
