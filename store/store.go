// Package store persists value snapshots in a SQLite database, keyed by
// content address.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested snapshot doesn't exist
var ErrNotFound = errors.New("snapshot not found")

// Store handles SQLite storage for encoded snapshots
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open creates or opens a snapshot store at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Create table if needed
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		hash TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Put stores an encoded snapshot under its content address. Storing the
// same address twice is a no-op; the content is identical by construction.
func (s *Store) Put(hash [32]byte, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO snapshots (hash, data) VALUES (?, ?)",
		fmt.Sprintf("%x", hash), data,
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Get retrieves the encoded snapshot stored under hash
func (s *Store) Get(hash [32]byte) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		"SELECT data FROM snapshots WHERE hash = ?", fmt.Sprintf("%x", hash),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return data, nil
}

// Has reports whether a snapshot is stored under hash
func (s *Store) Has(hash [32]byte) (bool, error) {
	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM snapshots WHERE hash = ?", fmt.Sprintf("%x", hash),
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("querying snapshot: %w", err)
	}
	return true, nil
}

// Len returns the number of stored snapshots
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}
