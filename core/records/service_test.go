package records

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

type item struct {
	ID     string
	Name   string
	Status string
	Amount float64
}

type summary struct {
	Total float64
}

func newService(items ...item) *Service[item, summary] {
	return &Service[item, summary]{
		Repo: inmemdb.NewTable("item", func(it item) string { return it.ID }, items...),
		Schema: listing.Schema[item]{
			Resource: "items",
			Search:   []func(item) string{func(it item) string { return it.Name }},
			Filters:  map[string]func(item) string{"status": func(it item) string { return it.Status }},
			Sorters:  map[string]listing.Comparator[item]{"amount": listing.Numbers(func(it item) float64 { return it.Amount })},
			PageSize: 2,
		},
		Summarize: func(items []item) summary {
			return summary{Total: listing.Sum(items, func(it item) float64 { return it.Amount })}
		},
		CSV: CSVCodec[item]{
			Header: []string{"id", "name", "status", "amount"},
			Encode: func(it item) []string {
				return []string{it.ID, it.Name, it.Status, FormatFloat(it.Amount)}
			},
			Decode: func(r Row) (item, error) {
				amount, err := r.Float("amount", 0)
				if err != nil {
					return item{}, err
				}
				return item{ID: core.NewID(), Name: r.String("name", "Unnamed"), Status: r.String("status", "pending"), Amount: amount}, nil
			},
		},
	}
}

func fixtures() []item {
	return []item{
		{ID: "1", Name: "one", Status: "pending", Amount: 100},
		{ID: "2", Name: "two", Status: "pending", Amount: 50},
		{ID: "3", Name: "three", Status: "done", Amount: 25.5},
	}
}

func TestService_Query(t *testing.T) {
	svc := newService(fixtures()...)
	res, err := svc.Query(context.Background(), listing.Criteria{Orderings: core.ParseOrdering("-amount"), Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 2, res.Page.Page)
	assert.Equal(t, []item{fixtures()[2]}, res.Results)
	assert.Equal(t, 175.5, res.Summary.Total)

	_, err = svc.Query(context.Background(), listing.Criteria{Filters: map[string][]string{"color": {"red"}}})
	assert.Error(t, err)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newService(fixtures()...)

	n, err := svc.Delete(ctx, "2", " 2", "", "404")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, _ := svc.All(ctx)
	assert.Equal(t, []item{fixtures()[0], fixtures()[2]}, all)

	n, err = svc.Delete(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_UpdateMany(t *testing.T) {
	ctx := context.Background()
	svc := newService(fixtures()...)

	updated, err := svc.UpdateMany(ctx, []string{"1", "3", "3", "404"}, func(it *item) { it.Status = "archived" })
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	all, _ := svc.All(ctx)
	statuses := make(map[string]string)
	for _, it := range all {
		statuses[it.ID] = it.Status
	}
	assert.Equal(t, map[string]string{"1": "archived", "2": "pending", "3": "archived"}, statuses)
}

func TestService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	svc := newService(fixtures()...)

	var buf bytes.Buffer
	n, err := svc.ExportCSV(ctx, listing.Criteria{Filters: map[string][]string{"status": {"pending"}}, Orderings: core.ParseOrdering("amount")}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "id,name,status,amount\n2,two,pending,50\n1,one,pending,100\n", buf.String())

	buf.Reset()
	_, err = svc.ExportCSV(ctx, listing.Criteria{Search: "nothing"}, &buf)
	assert.ErrorIs(t, err, core.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestService_ImportCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("fallbacks", func(t *testing.T) {
		svc := newService()
		src := "Name, Amount\n\"Smith, J\",12.5\n,\n,3\n"
		n, err := svc.ImportCSV(ctx, strings.NewReader(src))
		require.NoError(t, err)
		assert.Equal(t, 2, n, "blank line skipped")

		all, _ := svc.All(ctx)
		require.Len(t, all, 2)
		assert.Equal(t, "Unnamed", all[0].Name)
		assert.Equal(t, 3.0, all[0].Amount)
		assert.Equal(t, "Smith, J", all[1].Name)
		assert.Equal(t, "pending", all[1].Status)
		assert.NotEmpty(t, all[1].ID)
	})

	t.Run("invalid line", func(t *testing.T) {
		svc := newService()
		n, err := svc.ImportCSV(ctx, strings.NewReader("name,amount\na,1\nb,abc\nc,3\n"))
		assert.Equal(t, 1, n)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "amount", vErr.Fields[0].Field)
		assert.Contains(t, err.Error(), "line 3")
	})

	t.Run("byte order mark", func(t *testing.T) {
		svc := newService()
		n, err := svc.ImportCSV(ctx, strings.NewReader("\ufeffName,amount\nExcel,7\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		all, _ := svc.All(ctx)
		require.Len(t, all, 1)
		assert.Equal(t, "Excel", all[0].Name, "the header keeps its first column")
		assert.Equal(t, 7.0, all[0].Amount)
	})

	t.Run("empty file", func(t *testing.T) {
		n, err := newService().ImportCSV(ctx, strings.NewReader(""))
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, UniqueIDs([]string{"b", " a", "", "b", "a "}))
	assert.Empty(t, UniqueIDs(nil))
}
