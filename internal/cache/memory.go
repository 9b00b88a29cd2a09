package cache

import (
	"context"
	"sync"
)

// MemoryStore implements [Store] with a process-local map.
//
// Cached records do not survive a restart; the next request simply falls back
// to the external exchange. Primarily useful for tests and single-node
// deployments without SQLite or Redis.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) recordKey(kind Kind, key string) string {
	return string(kind) + ":" + key
}

// Get retrieves the record for a kind and key, expired or not.
func (s *MemoryStore) Get(ctx context.Context, kind Kind, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[s.recordKey(kind, key)]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(record))
	copy(out, record)
	return out, nil
}

// Put stores the record for a kind and key, overwriting any prior record.
func (s *MemoryStore) Put(ctx context.Context, kind Kind, key string, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(record))
	copy(stored, record)
	s.records[s.recordKey(kind, key)] = stored
	return nil
}

// Delete removes the record for a kind and key. Deleting an absent record is not an error.
func (s *MemoryStore) Delete(ctx context.Context, kind Kind, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, s.recordKey(kind, key))
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
