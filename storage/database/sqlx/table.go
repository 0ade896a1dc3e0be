// Package sqlxrepos implements the repositories on Postgres with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
)

// Table is a core.Repository over one SQL table. Columns are read from the `db` tags of T;
// "id" is the primary key and "created_at" orders QueryAll, newest first.
type Table[T any] struct {
	db       *sqlx.DB
	name     string
	resource string
	columns  []string

	selectQuery string
	insertQuery string
	updateQuery string
}

func NewTable[T any](db *sqlx.DB, name, resource string) *Table[T] {
	cols := columns(reflect.TypeOf(*new(T)))
	tbl := &Table[T]{db: db, name: name, resource: resource, columns: cols}

	named := make([]string, len(cols))
	sets := make([]string, 0, len(cols))
	for i, col := range cols {
		named[i] = ":" + col
		if col != "id" && col != "created_at" {
			sets = append(sets, col+" = :"+col)
		}
	}
	tbl.selectQuery = fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), name)
	tbl.insertQuery = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), strings.Join(named, ", "))
	tbl.updateQuery = fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", name, strings.Join(sets, ", "))
	return tbl
}

// columns lists the db tags of a struct type, in field order.
func columns(typ reflect.Type) []string {
	cols := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := strings.Split(typ.Field(i).Tag.Get("db"), ",")[0]
		if tag != "" && tag != "-" {
			cols = append(cols, tag)
		}
	}
	return cols
}

// validID reports whether id can be compared with a UUID column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (tbl *Table[T]) QueryAll(ctx context.Context) ([]T, error) {
	recs := make([]T, 0)
	if err := tbl.db.SelectContext(ctx, &recs, tbl.selectQuery+" ORDER BY created_at DESC"); err != nil {
		return nil, errors.Wrap(err, "querying "+tbl.name)
	}
	return recs, nil
}

func (tbl *Table[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	if !validID(id) {
		return rec, core.NewNotFoundError(tbl.resource)
	}
	if err := tbl.db.GetContext(ctx, &rec, tbl.selectQuery+" WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, core.NewNotFoundError(tbl.resource)
		}
		return rec, errors.Wrap(err, "getting "+tbl.resource)
	}
	return rec, nil
}

func (tbl *Table[T]) Create(ctx context.Context, rec T) (T, error) {
	if _, err := tbl.db.NamedExecContext(ctx, tbl.insertQuery, rec); err != nil {
		return rec, errors.Wrap(err, "inserting "+tbl.resource)
	}
	return rec, nil
}

func (tbl *Table[T]) Update(ctx context.Context, rec T) (T, error) {
	res, err := tbl.db.NamedExecContext(ctx, tbl.updateQuery, rec)
	if err != nil {
		return rec, errors.Wrap(err, "updating "+tbl.resource)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return rec, errors.Wrap(err, "updating "+tbl.resource)
	}
	if n == 0 {
		return rec, core.NewNotFoundError(tbl.resource)
	}
	return rec, nil
}

func (tbl *Table[T]) Delete(ctx context.Context, ids ...string) (int, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}

	q, args, err := sqlx.In("DELETE FROM "+tbl.name+" WHERE id IN (?)", valid)
	if err != nil {
		return 0, errors.Wrap(err, "deleting "+tbl.name)
	}
	res, err := tbl.db.ExecContext(ctx, tbl.db.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting "+tbl.name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting "+tbl.name)
	}
	return int(n), nil
}
