// Package inmemdb keeps record collections in memory. It backs tests and the "memory" database engine.
package inmemdb

import (
	"context"
	"sync"

	"github.com/trezcool/akademi/core"
)

// Table is an in-memory core.Repository. Rows are kept newest first.
type Table[T any] struct {
	mu       sync.RWMutex
	resource string
	key      func(T) string
	rows     []T
}

var _ core.Repository[struct{ ID string }] = (*Table[struct{ ID string }])(nil)

// NewTable returns a table of resource records identified by key, filled with rows (kept in the given order).
func NewTable[T any](resource string, key func(T) string, rows ...T) *Table[T] {
	tbl := &Table[T]{resource: resource, key: key, rows: make([]T, 0, len(rows))}
	tbl.rows = append(tbl.rows, rows...)
	return tbl
}

func (tbl *Table[T]) index(id string) int {
	for i, row := range tbl.rows {
		if tbl.key(row) == id {
			return i
		}
	}
	return -1
}

func (tbl *Table[T]) QueryAll(_ context.Context) ([]T, error) {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()

	rows := make([]T, len(tbl.rows))
	copy(rows, tbl.rows)
	return rows, nil
}

func (tbl *Table[T]) Get(_ context.Context, id string) (T, error) {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()

	if i := tbl.index(id); i >= 0 {
		return tbl.rows[i], nil
	}
	var zero T
	return zero, core.NewNotFoundError(tbl.resource)
}

func (tbl *Table[T]) Create(_ context.Context, rec T) (T, error) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	tbl.rows = append([]T{rec}, tbl.rows...)
	return rec, nil
}

func (tbl *Table[T]) Update(_ context.Context, rec T) (T, error) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	i := tbl.index(tbl.key(rec))
	if i < 0 {
		var zero T
		return zero, core.NewNotFoundError(tbl.resource)
	}
	tbl.rows[i] = rec
	return rec, nil
}

func (tbl *Table[T]) Delete(_ context.Context, ids ...string) (int, error) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	del := make(map[string]bool, len(ids))
	for _, id := range ids {
		del[id] = true
	}
	kept := make([]T, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		if !del[tbl.key(row)] {
			kept = append(kept, row)
		}
	}
	n := len(tbl.rows) - len(kept)
	tbl.rows = kept
	return n, nil
}
