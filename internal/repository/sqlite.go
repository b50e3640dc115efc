package repository

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/photosync/photolist/internal/observability"
)

// NewSQLiteStore opens (or creates) the SQLite file at dbPath and makes sure
// the kv_store table exists
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// One writer at a time; the list set is small and written whole
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, err
	}

	traced, err := observability.NewTraceDB(db, "sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLStore{
		db:       traced,
		getQuery: `SELECT value FROM kv_store WHERE key = ?`,
		setQuery: `
			INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`,
	}, nil
}

func createSQLiteTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	return err
}
