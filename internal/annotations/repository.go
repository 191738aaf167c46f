// Package annotations persists the reader's highlights and favorite
// translations. The store is an embedded sqlite file: the server-side
// analog of the namespaced local storage a browser client would use, with
// the same last-write-wins semantics and no conflict resolution.
package annotations

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS highlights (
	id         TEXT PRIMARY KEY,
	bible_id   TEXT NOT NULL,
	chapter_id TEXT NOT NULL,
	text       TEXT NOT NULL,
	color      TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_highlights_chapter ON highlights(bible_id, chapter_id);

CREATE TABLE IF NOT EXISTS favorites (
	bible_id   TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL
);
`

type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and bootstraps) the annotations database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "annotations.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) SaveHighlight(ctx context.Context, h Highlight) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO highlights (id, bible_id, chapter_id, text, color, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET text = excluded.text, color = excluded.color`,
		h.ID, h.BibleID, h.ChapterID, h.Text, h.Color, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving highlight: %w", err)
	}
	return nil
}

// ListHighlights returns the highlights recorded for exactly one
// (bible, chapter) pair, oldest first.
func (s *Store) ListHighlights(ctx context.Context, bibleID, chapterID string) ([]Highlight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bible_id, chapter_id, text, color, created_at
		 FROM highlights
		 WHERE bible_id = ? AND chapter_id = ?
		 ORDER BY created_at, id`,
		bibleID, chapterID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing highlights: %w", err)
	}
	defer rows.Close()

	var highlights []Highlight
	for rows.Next() {
		var h Highlight
		if err := rows.Scan(&h.ID, &h.BibleID, &h.ChapterID, &h.Text, &h.Color, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning highlight: %w", err)
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

func (s *Store) DeleteHighlight(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM highlights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting highlight: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleFavorite flips a translation's favorite flag and returns the new
// state.
func (s *Store) ToggleFavorite(ctx context.Context, bibleID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE bible_id = ?`, bibleID)
	if err != nil {
		return false, fmt.Errorf("toggling favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO favorites (bible_id, created_at) VALUES (?, CURRENT_TIMESTAMP)`, bibleID)
	if err != nil {
		return false, fmt.Errorf("toggling favorite: %w", err)
	}
	return true, nil
}

func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bible_id FROM favorites ORDER BY created_at, bible_id`)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
