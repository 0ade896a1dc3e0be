package core

import (
	"context"
	"strings"
)

// KVStore stores raw values under fixed keys.
type KVStore interface {
	// Get returns (nil, nil) when key is not set.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	if ord.Ascending {
		return ord.Field
	}
	return "-" + ord.Field
}

// ParseOrdering parses "-created_at,name" into orderings. Empty fields are skipped.
func ParseOrdering(s string) []Ordering {
	var orderings []Ordering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, Ordering{Field: field, Ascending: !descending})
	}
	return orderings
}

// FormatOrdering is the inverse of ParseOrdering.
func FormatOrdering(orderings []Ordering) string {
	parts := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		parts = append(parts, ord.String())
	}
	return strings.Join(parts, ",")
}

// Repository is the storage of one record collection.
// Implementations return records newest first.
type Repository[T any] interface {
	QueryAll(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	// Delete deletes the records with the given ids, ignoring unknown ones, and returns how many were deleted.
	Delete(ctx context.Context, ids ...string) (int, error)
}
