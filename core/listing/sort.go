package listing

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
)

// Comparator returns a negative number when a < b, a positive number when a > b and 0 otherwise.
type Comparator[T any] func(a, b T) int

// Strings compares case-insensitively.
func Strings[T any](f func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(f(a)), strings.ToLower(f(b)))
	}
}

func Numbers[T any, N cmp.Ordered](f func(T) N) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(f(a), f(b))
	}
}

func Times[T any](f func(T) time.Time) Comparator[T] {
	return func(a, b T) int {
		return f(a).Compare(f(b))
	}
}

// Bools sorts false before true.
func Bools[T any](f func(T) bool) Comparator[T] {
	return func(a, b T) int {
		switch x, y := f(a), f(b); {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}
}

// Sort returns a sorted copy of items. Records with equal keys keep their source order.
func Sort[T any](items []T, s Schema[T], orderings []core.Ordering) ([]T, error) {
	comparators := make([]Comparator[T], 0, len(orderings))
	for _, ord := range orderings {
		comp, ok := s.Sorters[ord.Field]
		if !ok {
			return nil, core.NewValidationError(
				errors.Errorf("cannot order by %q", ord.Field),
				core.FieldError{Field: "ordering", Error: "unknown field " + ord.Field},
			)
		}
		if !ord.Ascending {
			comp = reverse(comp)
		}
		comparators = append(comparators, comp)
	}

	sorted := slices.Clone(items)
	if len(comparators) == 0 {
		return sorted, nil
	}
	slices.SortStableFunc(sorted, func(a, b T) int {
		for _, comp := range comparators {
			if c := comp(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted, nil
}

func reverse[T any](comp Comparator[T]) Comparator[T] {
	return func(a, b T) int { return comp(b, a) }
}

// Toggle applies a click on a column header to the current ordering:
// the same primary field flips its direction, any other field becomes the ascending primary key.
func Toggle(orderings []core.Ordering, field string) []core.Ordering {
	if len(orderings) > 0 && orderings[0].Field == field {
		toggled := slices.Clone(orderings)
		toggled[0].Ascending = !toggled[0].Ascending
		return toggled
	}
	return []core.Ordering{{Field: field, Ascending: true}}
}
