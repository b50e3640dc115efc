package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/photosync/photolist/internal/observability"
)

// SQLStore is a KVStore backed by a single kv_store table.
// The same table layout is used for SQLite and PostgreSQL; only the
// placeholder style differs.
type SQLStore struct {
	db       *observability.TraceDB
	getQuery string
	setQuery string
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowScan(ctx, s.getQuery, []interface{}{key}, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.setQuery, key, value, time.Now().UTC())
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
