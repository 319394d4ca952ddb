// Package history keeps an undo journal for a sprite document.
//
// Each mutating command records the document as it was before the command
// ran. The journal is a SQLite database inside the document directory, so it
// travels with the document and survives between CLI invocations.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/danieljhkim/spritedev/internal/clock"
)

// FileName is the journal's file name inside a document directory.
const FileName = "history.db"

// ErrEmpty is returned when the journal has no entries.
var ErrEmpty = errors.New("history is empty")

// Entry is one recorded pre-command state.
type Entry struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Command   string    `json:"command"`
	CreatedAt time.Time `json:"createdAt"`

	// Snapshot is an encoded persist.Snapshot; empty in listings
	Snapshot []byte `json:"-"`
}

// Journal is a bounded stack of entries backed by SQLite.
type Journal struct {
	db    *sql.DB
	clock clock.Clock
	limit int
}

// Open opens or creates the journal at path. A limit of zero or less keeps
// every entry.
func Open(path string, clk clock.Clock, limit int) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	j := &Journal{db: db, clock: clk, limit: limit}
	if err := j.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		command TEXT NOT NULL,
		created_at TEXT NOT NULL,
		snapshot BLOB NOT NULL
	);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record pushes a snapshot taken before command ran, dropping the oldest
// entries beyond the limit.
func (j *Journal) Record(command string, snapshot []byte) (*Entry, error) {
	e := &Entry{
		ID:        uuid.NewString(),
		Command:   command,
		CreatedAt: j.clock.Now(),
		Snapshot:  snapshot,
	}

	res, err := j.db.Exec(
		`INSERT INTO entries (id, command, created_at, snapshot) VALUES (?, ?, ?, ?)`,
		e.ID, e.Command, e.CreatedAt.Format(time.RFC3339Nano), e.Snapshot,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", command, err)
	}
	if e.Seq, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read history sequence: %w", err)
	}

	if j.limit > 0 {
		_, err := j.db.Exec(
			`DELETE FROM entries WHERE seq NOT IN (SELECT seq FROM entries ORDER BY seq DESC LIMIT ?)`,
			j.limit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to prune history: %w", err)
		}
	}
	return e, nil
}

// Latest returns the newest entry with its snapshot.
func (j *Journal) Latest() (*Entry, error) {
	row := j.db.QueryRow(
		`SELECT seq, id, command, created_at, snapshot FROM entries ORDER BY seq DESC LIMIT 1`,
	)
	e, err := scanEntry(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	return e, err
}

// Pop removes and returns the newest entry.
func (j *Journal) Pop() (*Entry, error) {
	e, err := j.Latest()
	if err != nil {
		return nil, err
	}
	if _, err := j.db.Exec(`DELETE FROM entries WHERE seq = ?`, e.Seq); err != nil {
		return nil, fmt.Errorf("failed to remove history entry: %w", err)
	}
	return e, nil
}

// List returns every entry, newest first, without snapshots.
func (j *Journal) List() ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT seq, id, command, created_at FROM entries ORDER BY seq DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Len returns the number of entries.
func (j *Journal) Len() (int, error) {
	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

func scanEntry(scan func(dest ...any) error, withSnapshot bool) (*Entry, error) {
	var e Entry
	var created string
	dest := []any{&e.Seq, &e.ID, &e.Command, &created}
	if withSnapshot {
		dest = append(dest, &e.Snapshot)
	}
	if err := scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read history entry: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("bad history timestamp %q: %w", created, err)
	}
	e.CreatedAt = t
	return &e, nil
}
