package revenue

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/chart"
	"github.com/trezcool/akademi/core/listing"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

func month(m time.Month) time.Time {
	return time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC)
}

func newService() *Service {
	return NewService(inmemdb.NewTable(Resource, func(e Entry) string { return e.ID },
		Entry{ID: "1", Month: month(time.February), Source: SourceCourses, Revenue: 1000, CostTotal: 400, Margin: 0.6},
		Entry{ID: "2", Month: month(time.February), Source: SourceDonations, Revenue: 500, CostTotal: 0, Margin: 1},
		Entry{ID: "3", Month: month(time.January), Source: SourceCourses, Revenue: 800, CostTotal: 600, Margin: 0.25},
		Entry{ID: "4", Month: month(time.January), Source: SourceOther, Revenue: 0, CostTotal: 100},
	))
}

func TestMargin(t *testing.T) {
	assert.Equal(t, 0.6, Margin(1000, 400))
	assert.Equal(t, 0.0, Margin(0, 100), "no revenue")
	assert.Equal(t, -1.0, Margin(100, 200))
}

func TestService_Query(t *testing.T) {
	svc := newService()
	res, err := svc.Query(context.Background(), listing.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, Summary{
		TotalRevenue: 2300,
		TotalCost:    1100,
		Profit:       1200,
		Margin:       52.17,
		BySource:     map[string]float64{SourceCourses: 1800, SourceDonations: 500, SourceOther: 0},
	}, res.Summary)

	res, err = svc.Query(context.Background(), listing.Criteria{Filters: map[string][]string{"source": {SourceOther}}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Summary.Margin)
}

func TestService_Series(t *testing.T) {
	svc := newService()
	series, err := svc.Series(context.Background(), listing.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []Point{
		{Month: "2024-01", Revenue: 800, Cost: 700, Profit: 100},
		{Month: "2024-02", Revenue: 1500, Cost: 400, Profit: 1100},
	}, series)

	series, err = svc.Series(context.Background(), listing.Criteria{Search: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestService_Chart(t *testing.T) {
	svc := newService()

	line, err := svc.Chart(context.Background(), listing.Criteria{}, chart.Line)
	require.NoError(t, err)
	assert.Equal(t, "revenue-line.svg", line.Name)
	assert.Equal(t, core.ContentTypeSVG, line.ContentType)
	assert.Contains(t, string(line.Content), ">2024-01<")
	assert.Contains(t, string(line.Content), `d="M 20,220 L 580,20"`)

	pie, err := svc.Chart(context.Background(), listing.Criteria{}, chart.Pie)
	require.NoError(t, err)
	assert.Contains(t, string(pie.Content), "courses (78.26%)")
	assert.NotContains(t, string(pie.Content), "other (", "zero revenue gets no slice")
}

func TestService_Mutations(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	e, err := svc.Create(ctx, NewEntry{Month: time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC), Source: "Subscriptions", Revenue: 200, CostTotal: 50})
	require.NoError(t, err)
	assert.Equal(t, month(time.March), e.Month)
	assert.Equal(t, 0.75, e.Margin)

	cost := 200.0
	e, err = svc.Update(ctx, e.ID, UpdateEntry{CostTotal: &cost})
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.Margin)

	_, err = svc.Create(ctx, NewEntry{Source: SourceCourses})
	assert.Error(t, err, "month is required")

	n, err := svc.ImportCSV(ctx, strings.NewReader("month,source,revenue,cost_total,margin_pct\n2024-04,courses,100,25,99\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	res, err := svc.Query(ctx, listing.Criteria{From: month(time.April)})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, 0.75, res.Results[0].Margin)
}

func TestService_ExportCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := newService().ExportCSV(context.Background(), listing.Criteria{
		Filters:   map[string][]string{"source": {SourceCourses}},
		Orderings: core.ParseOrdering("month"),
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "id,month,source,description,revenue,cost_total,margin_pct\n"+
		"3,2024-01,courses,,800,600,25\n"+
		"1,2024-02,courses,,1000,400,60\n", buf.String(), "margin is exported as a percentage")
}
