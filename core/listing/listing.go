// Package listing implements the derived view of a record collection:
// filter, sort, paginate and aggregate. Every function is pure: the source
// collection is never modified.
package listing

import (
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
)

// All is the categorical filter value meaning "no constraint".
const All = "all"

// Criteria holds what the user selected on a list screen.
type Criteria struct {
	Search    string
	Filters   map[string][]string // field: accepted values (OR)
	From      time.Time           // inclusive, on Schema.Date
	To        time.Time           // inclusive, on Schema.Date
	Orderings []core.Ordering
	Page      int
	PageSize  int
}

// Schema describes how a record type takes part in the pipeline.
type Schema[T any] struct {
	Resource        string
	Search          []func(T) string          // designated text fields
	Filters         map[string]func(T) string // categorical fields
	Date            func(T) time.Time         // optional, used by date ranges
	Sorters         map[string]Comparator[T]
	DefaultOrdering []core.Ordering
	PageSize        int
}

// Apply runs the whole pipeline. It returns the filtered (unpaginated) records, to compute
// aggregates from, and the requested page of the filtered and sorted records.
func Apply[T any](items []T, s Schema[T], c Criteria) ([]T, Page[T], error) {
	filtered, err := Filter(items, s, c)
	if err != nil {
		return nil, Page[T]{}, err
	}
	orderings := c.Orderings
	if len(orderings) == 0 {
		orderings = s.DefaultOrdering
	}
	sorted, err := Sort(filtered, s, orderings)
	if err != nil {
		return nil, Page[T]{}, err
	}
	size := c.PageSize
	if size <= 0 {
		size = s.PageSize
	}
	page := Paginate(sorted, c.Page, size)
	page.Ordering = core.FormatOrdering(orderings)
	return filtered, page, nil
}

// Filter keeps the records matching the search query AND every categorical filter AND the date range.
func Filter[T any](items []T, s Schema[T], c Criteria) ([]T, error) {
	query := core.CleanString(c.Search, true /* lower */)

	var filters []activeFilter[T]
	for field, values := range c.Filters {
		valueFunc, ok := s.Filters[field]
		if !ok {
			return nil, core.NewValidationError(
				errors.Errorf("unknown filter %q", field),
				core.FieldError{Field: field, Error: "unknown filter"},
			)
		}
		if accepted := constraint(values); len(accepted) > 0 {
			filters = append(filters, activeFilter[T]{value: valueFunc, values: accepted})
		}
	}

	hasRange := s.Date != nil && !(c.From.IsZero() && c.To.IsZero())

	res := make([]T, 0, len(items))
	for _, item := range items {
		if query != "" && !matchesSearch(item, s.Search, query) {
			continue
		}
		ok := true
		for _, f := range filters {
			if !slices.Contains(f.values, f.value(item)) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if hasRange && !inRange(s.Date(item), c.From, c.To) {
			continue
		}
		res = append(res, item)
	}
	return res, nil
}

type activeFilter[T any] struct {
	value  func(T) string
	values []string
}

// constraint drops empty values and returns nil when any value is the All sentinel.
func constraint(values []string) []string {
	accepted := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, All) {
			return nil
		}
		if v != "" {
			accepted = append(accepted, v)
		}
	}
	return accepted
}

func matchesSearch[T any](item T, fields []func(T) string, query string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(item)), query) {
			return true
		}
	}
	return false
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
