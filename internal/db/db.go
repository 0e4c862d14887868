// ABOUTME: Database connection and initialization for the knowledge graph
// ABOUTME: Handles SQLite setup, pragmas, and schema creation
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// InitDB initializes the knowledge graph database at the given path.
func InitDB(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return nil, err
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set performance pragmas
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Execute schema
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	// One-time import of a legacy JSONL memory file, if present
	if err := importLegacyMemory(db, filepath.Join(dir, legacyMemoryFile)); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
