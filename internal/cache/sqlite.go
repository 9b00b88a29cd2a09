package cache

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore implements [Store] over a SQLite database.
//
// The cache_records table is created by the shared migrations; an upsert keeps
// each write atomic so a concurrent Get sees either the old or the new record,
// never a partial one.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore with the given database connection
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the record for a kind and key, expired or not.
func (s *SQLiteStore) Get(ctx context.Context, kind Kind, key string) ([]byte, error) {
	query := `
		SELECT record FROM cache_records WHERE kind = ? AND key = ?
	`

	var record []byte
	err := s.db.QueryRowContext(ctx, query, string(kind), key).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cache record: %w", err)
	}

	return record, nil
}

// Put stores the record for a kind and key, overwriting any prior record.
func (s *SQLiteStore) Put(ctx context.Context, kind Kind, key string, record []byte) error {
	query := `
		INSERT INTO cache_records (kind, key, record) VALUES (?, ?, ?)
		ON CONFLICT (kind, key) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, string(kind), key, record); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}

	return nil
}

// Delete removes the record for a kind and key. Deleting an absent record is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, kind Kind, key string) error {
	query := `
		DELETE FROM cache_records WHERE kind = ? AND key = ?
	`

	if _, err := s.db.ExecContext(ctx, query, string(kind), key); err != nil {
		return fmt.Errorf("failed to delete cache record: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
