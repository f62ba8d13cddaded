/*
Package store persists desktop items and uploaded image metadata in SQLite.

A Store opened with an empty path is unavailable: reads return empty
results and writes fail with ErrUnavailable, so the desktop keeps working
with its built-in icons.

Example Usage:

	s, err := store.Open("retrodesk.db")
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	item, err := s.CreateItem(ctx, store.NewItem{Name: "Trips", Type: "folder"})
*/
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Common errors
var (
	ErrUnavailable = errors.New("store: storage unavailable")
	ErrNotFound    = errors.New("store: record not found")
)

// ValidationError reports a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Store is the SQLite backend. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. An empty path returns an
// unavailable store.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS desktop_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS images (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			original_name TEXT NOT NULL,
			path TEXT NOT NULL,
			size INTEGER NOT NULL,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			uploaded_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_images_uploaded ON images(uploaded_at);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	return &Store{db: db}, nil
}

// Available reports whether the store has a database behind it.
func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if !s.Available() {
		return ErrUnavailable
	}
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.Available() {
		return s.db.Close()
	}
	return nil
}
