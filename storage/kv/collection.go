package kvstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

// Collection is a core.Repository kept in memory and saved as one JSON array under a single key.
// It is read once when loaded and written on every change.
type Collection[T any] struct {
	*inmemdb.Table[T]
	kv  core.KVStore
	key string
	mu  sync.Mutex
}

// LoadCollection reads the collection saved under key. A missing key is an empty collection.
func LoadCollection[T any](ctx context.Context, kv core.KVStore, key, resource string, id func(T) string) (*Collection[T], error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "loading "+key)
	}
	rows := make([]T, 0)
	if raw != nil {
		if err = json.Unmarshal(raw, &rows); err != nil {
			return nil, errors.Wrap(err, "decoding "+key)
		}
	}
	return &Collection[T]{
		Table: inmemdb.NewTable(resource, id, rows...),
		kv:    kv,
		key:   key,
	}, nil
}

func (c *Collection[T]) save(ctx context.Context) error {
	rows, err := c.Table.QueryAll(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "encoding "+c.key)
	}
	return errors.Wrap(c.kv.Set(ctx, c.key, raw), "saving "+c.key)
}

func (c *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.Table.Create(ctx, rec)
	if err != nil {
		return rec, err
	}
	return rec, c.save(ctx)
}

func (c *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, err := c.Table.Update(ctx, rec)
	if err != nil {
		return rec, err
	}
	return rec, c.save(ctx)
}

func (c *Collection[T]) Delete(ctx context.Context, ids ...string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, err := c.Table.Delete(ctx, ids...)
	if err != nil || n == 0 {
		return n, err
	}
	return n, c.save(ctx)
}
