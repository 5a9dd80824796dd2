package index

import (
	"fmt"
	"time"

	"github.com/starford/raido/internal/models"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	Checksum  string
	UpdatedAt time.Time
}

// UpsertNote inserts or replaces a note and its outgoing links within a
// transaction. The title memoization cache is purged because any write may
// change which path a title resolves to.
func (db *DB) UpsertNote(n NoteRow, links []models.Link) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO notes (path, title, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.Checksum, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// Replace links: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path)
	if len(links) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target, type) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range links {
			if _, err := stmt.Exec(n.Path, l.Target, l.Type); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.titles.Purge()
	return nil
}

// DeleteNote removes a note and its outgoing links.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	if err := tx.Commit(); err != nil {
		return err
	}
	db.titles.Purge()
	return nil
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns path→checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// AllLinks returns every recorded link triple in insertion order.
func (db *DB) AllLinks() ([]models.Link, error) {
	rows, err := db.conn.Query(`SELECT source, target, type FROM links ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("index: all links: %w", err)
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.Source, &l.Target, &l.Type); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ResolveTitle returns the canonical stored title matching the given title,
// and whether any note carries it.
func (db *DB) ResolveTitle(title string) (string, bool) {
	var t string
	err := db.conn.QueryRow(`SELECT title FROM notes WHERE title = ? LIMIT 1`, title).Scan(&t)
	if err != nil {
		return "", false
	}
	return t, true
}

// FileForTitle returns the vault-relative path of the note carrying the
// given title. Lookups are memoized in an LRU cache that is purged on any
// index mutation.
func (db *DB) FileForTitle(title string) (string, bool) {
	if p, ok := db.titles.Get(title); ok {
		return p, true
	}
	var p string
	err := db.conn.QueryRow(`SELECT path FROM notes WHERE title = ? LIMIT 1`, title).Scan(&p)
	if err != nil {
		return "", false
	}
	db.titles.Add(title, p)
	return p, true
}

// TitleForPath returns the display title for a note key, falling back to
// the key itself when the note is unknown or untitled.
func (db *DB) TitleForPath(path string) string {
	var t string
	err := db.conn.QueryRow(`SELECT title FROM notes WHERE path = ?`, path).Scan(&t)
	if err != nil || t == "" {
		return path
	}
	return t
}
