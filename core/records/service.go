// Package records binds a record collection to the listing pipeline and to the
// mutation handlers shared by every admin resource.
package records

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
)

type Service[T any, S any] struct {
	Repo      core.Repository[T]
	Schema    listing.Schema[T]
	Summarize func([]T) S
	CSV       CSVCodec[T]
}

// Query returns the requested page of the collection and the summary of the filtered collection.
func (svc *Service[T, S]) Query(ctx context.Context, c listing.Criteria) (listing.Result[T, S], error) {
	items, err := svc.Repo.QueryAll(ctx)
	if err != nil {
		return listing.Result[T, S]{}, errors.Wrap(err, "querying "+svc.Schema.Resource)
	}
	filtered, page, err := listing.Apply(items, svc.Schema, c)
	if err != nil {
		return listing.Result[T, S]{}, err
	}
	return listing.Result[T, S]{Page: page, Summary: svc.Summarize(filtered)}, nil
}

// Filtered returns the filtered and sorted collection, without pagination.
func (svc *Service[T, S]) Filtered(ctx context.Context, c listing.Criteria) ([]T, error) {
	items, err := svc.Repo.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying "+svc.Schema.Resource)
	}
	filtered, err := listing.Filter(items, svc.Schema, c)
	if err != nil {
		return nil, err
	}
	orderings := c.Orderings
	if len(orderings) == 0 {
		orderings = svc.Schema.DefaultOrdering
	}
	return listing.Sort(filtered, svc.Schema, orderings)
}

// All returns the whole collection as stored.
func (svc *Service[T, S]) All(ctx context.Context) ([]T, error) {
	items, err := svc.Repo.QueryAll(ctx)
	return items, errors.Wrap(err, "querying "+svc.Schema.Resource)
}

func (svc *Service[T, S]) Get(ctx context.Context, id string) (T, error) {
	return svc.Repo.Get(ctx, id)
}

func (svc *Service[T, S]) Delete(ctx context.Context, ids ...string) (int, error) {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := svc.Repo.Delete(ctx, ids...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting "+svc.Schema.Resource)
	}
	return n, nil
}

// UpdateMany applies edit to every selected record. Unknown ids are skipped.
func (svc *Service[T, S]) UpdateMany(ctx context.Context, ids []string, edit func(*T)) ([]T, error) {
	ids = UniqueIDs(ids)
	updated := make([]T, 0, len(ids))
	for _, id := range ids {
		rec, err := svc.Repo.Get(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, errors.Wrap(err, "getting "+svc.Schema.Resource)
		}
		edit(&rec)
		if rec, err = svc.Repo.Update(ctx, rec); err != nil {
			return nil, errors.Wrap(err, "updating "+svc.Schema.Resource)
		}
		updated = append(updated, rec)
	}
	return updated, nil
}

// UniqueIDs drops empty and duplicated ids, keeping the first occurrences in order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = core.CleanString(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
