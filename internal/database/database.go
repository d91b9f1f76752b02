// Package database persists the move history for tunewatch.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Nomadcxx/tunewatch/internal/paths"
)

// HistoryDB records every completed move so past runs can be inspected
// after the fact.
type HistoryDB struct {
	db   *sql.DB
	path string
}

// Open opens or creates the history database at the default location.
func Open() (*HistoryDB, error) {
	dbPath, err := paths.HistoryPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history path: %w", err)
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the history database at a specific path.
func OpenPath(path string) (*HistoryDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrent read access
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	hdb := &HistoryDB{db: db, path: path}

	if err := hdb.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return hdb, nil
}

// OpenInMemory opens an in-memory database for testing.
func OpenInMemory() (*HistoryDB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping in-memory database: %w", err)
	}

	hdb := &HistoryDB{db: db, path: ":memory:"}

	if err := hdb.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate in-memory database: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the filesystem path to the database file.
func (h *HistoryDB) Path() string {
	return h.path
}

func (h *HistoryDB) migrate() error {
	return applyMigrations(h.db)
}
