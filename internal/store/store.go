// Package store provides the SQLite-backed note store.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a note id does not exist in the store.
var ErrNotFound = errors.New("store: note not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	body        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	import_hash TEXT
);

CREATE INDEX IF NOT EXISTS idx_updated ON notes(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_import_hash ON notes(import_hash);
`

// Note is a stored note record.
type Note struct {
	ID         int64
	Title      string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ImportHash string
}

// Store wraps a sql.DB with note-specific operations.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Count returns the number of stored notes.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Insert creates a new note and returns it. importHash may be empty for
// notes created in the editor; imported notes carry their dedup hash.
func (s *Store) Insert(title, body, importHash string) (Note, error) {
	now := time.Now().UTC().Truncate(time.Second)
	ts := now.Format(time.RFC3339)

	res, err := s.conn.Exec(`
		INSERT INTO notes (title, body, created_at, updated_at, import_hash)
		VALUES (?, ?, ?, ?, ?)
	`, title, body, ts, ts, nullable(importHash))
	if err != nil {
		return Note{}, fmt.Errorf("store: insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Note{}, fmt.Errorf("store: insert note id: %w", err)
	}

	return Note{
		ID:         id,
		Title:      title,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
		ImportHash: importHash,
	}, nil
}

// Update rewrites title and body of an existing note and bumps updated_at.
// Returns ErrNotFound when the id does not exist.
func (s *Store) Update(id int64, title, body string) (Note, error) {
	now := time.Now().UTC().Truncate(time.Second)

	res, err := s.conn.Exec(`
		UPDATE notes SET title = ?, body = ?, updated_at = ? WHERE id = ?
	`, title, body, now.Format(time.RFC3339), id)
	if err != nil {
		return Note{}, fmt.Errorf("store: update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Note{}, fmt.Errorf("store: update note: %w", err)
	}
	if affected == 0 {
		return Note{}, ErrNotFound
	}

	return s.Get(id)
}

// Get returns the note with the given id, or ErrNotFound.
func (s *Store) Get(id int64) (Note, error) {
	row := s.conn.QueryRow(`
		SELECT id, title, body, created_at, updated_at, import_hash
		FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// Search returns notes whose title or body contains query, case-insensitively,
// most recently modified first. An empty (or blank) query returns all notes in
// the same order. limit <= 0 means no limit.
func (s *Store) Search(query string, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if isBlank(query) {
		rows, err = s.conn.Query(`
			SELECT id, title, body, created_at, updated_at, import_hash
			FROM notes
			ORDER BY updated_at DESC, id DESC
			LIMIT ?
		`, limit)
	} else {
		like := "%" + strings.ToLower(query) + "%"
		rows, err = s.conn.Query(`
			SELECT id, title, body, created_at, updated_at, import_hash
			FROM notes
			WHERE lower(title) LIKE ? OR lower(body) LIKE ?
			ORDER BY updated_at DESC, id DESC
			LIMIT ?
		`, like, like, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: search scan: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ExistsByHash reports whether any note carries the given import hash.
func (s *Store) ExistsByHash(hash string) (bool, error) {
	var n int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM notes WHERE import_hash = ?`, hash).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("store: exists by hash: %w", err)
	}
	return n > 0, nil
}

// Seed inserts n synthetic notes for testing.
func (s *Store) Seed(n int) error {
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("Dummy note %d", i+1)
		body := "Created for testing Notry.\n" +
			"This note contains keywords like alpha beta gamma delta.\n\n" +
			"Use :help for commands."
		if _, err := s.Insert(title, body, ""); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (Note, error) {
	var (
		n       Note
		created string
		updated string
		hash    sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Body, &created, &updated, &hash); err != nil {
		return Note{}, err
	}
	var err error
	if n.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return Note{}, fmt.Errorf("parse created_at: %w", err)
	}
	if n.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
		return Note{}, fmt.Errorf("parse updated_at: %w", err)
	}
	n.ImportHash = hash.String
	return n, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
