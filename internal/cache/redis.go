package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// retention bounds how long Redis keeps a record server-side. It is strictly
// longer than any record TTL, so a live record is never evicted early; the
// store still hands back expired records and leaves TTL policy to callers.
const retention = 48 * time.Hour

// RedisStore implements [Store] over a Redis client.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis at the given address and verifies the connection.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) recordKey(kind Kind, key string) string {
	return fmt.Sprintf("cache:%s:%s", kind, key)
}

// Get retrieves the record for a kind and key, expired or not.
func (s *RedisStore) Get(ctx context.Context, kind Kind, key string) ([]byte, error) {
	record, err := s.rdb.Get(ctx, s.recordKey(kind, key)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache record: %w", err)
	}
	return record, nil
}

// Put stores the record for a kind and key, overwriting any prior record.
func (s *RedisStore) Put(ctx context.Context, kind Kind, key string, record []byte) error {
	if err := s.rdb.Set(ctx, s.recordKey(kind, key), record, retention).Err(); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	return nil
}

// Delete removes the record for a kind and key. Deleting an absent record is not an error.
func (s *RedisStore) Delete(ctx context.Context, kind Kind, key string) error {
	if err := s.rdb.Del(ctx, s.recordKey(kind, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache record: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
