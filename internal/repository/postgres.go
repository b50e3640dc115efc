package repository

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/photosync/photolist/internal/observability"
)

// NewPostgresStore connects to PostgreSQL and makes sure the kv_store table exists
func NewPostgresStore(connStr string) (*SQLStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	traced, err := observability.NewTraceDB(db, "postgresql")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLStore{
		db:       traced,
		getQuery: `SELECT value FROM kv_store WHERE key = $1`,
		setQuery: `
			INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		`,
	}, nil
}

func createPostgresTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := db.Exec(schema)
	return err
}
