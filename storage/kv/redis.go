// Package kvstore stores small datasets as JSON strings under fixed keys, in Redis or in memory.
package kvstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/akademi/core"
)

type RedisStore struct {
	client *redis.Client
}

var _ core.KVStore = (*RedisStore)(nil)

// OpenRedis connects to the configured Redis server and pings it.
func OpenRedis(ctx context.Context, conf core.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "connecting to redis")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, errors.Wrap(err, "redis get "+key)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(s.client.Set(ctx, key, value, 0).Err(), "redis set "+key)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is a KVStore for tests and setups without Redis.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ core.KVStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), val...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}
