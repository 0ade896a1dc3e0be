package report

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/attendance"
	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/revenue"
	"github.com/trezcool/akademi/core/salary"
	inmemdb "github.com/trezcool/akademi/storage/database/inmem"
)

// textRenderer writes one line per row, cells separated by "|".
type textRenderer struct{}

func (textRenderer) Format() Format      { return CSV }
func (textRenderer) ContentType() string { return core.ContentTypeCSV }
func (textRenderer) Render(w io.Writer, t Table) error {
	lines := make([]string, 0, len(t.Rows)+2)
	var header []string
	for _, c := range t.Columns {
		header = append(header, c.Label)
	}
	lines = append(lines, strings.Join(header, "|"))
	for _, row := range append(t.Rows, t.Totals) {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = Text(c)
		}
		lines = append(lines, strings.Join(cells, "|"))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func newService() *Service {
	donations := donation.NewService(inmemdb.NewTable(donation.Resource, func(d donation.Donation) string { return d.ID },
		donation.Donation{ID: "d1", Donor: "Ann", Amount: 100, Date: day(1), Type: donation.TypeOneTime, Campaign: "General", Status: donation.StatusCompleted},
		donation.Donation{ID: "d2", Donor: "Bob", Amount: 50, Date: day(10), Type: donation.TypeMonthly, Campaign: "Scholarships", Status: donation.StatusPending},
		donation.Donation{ID: "d3", Donor: "Cid", Amount: 25.5, Date: day(20), Type: donation.TypeOneTime, Campaign: "General", Status: donation.StatusFailed},
	), nil)
	revenues := revenue.NewService(inmemdb.NewTable(revenue.Resource, func(e revenue.Entry) string { return e.ID }))
	courses := course.NewService(inmemdb.NewTable(course.Resource, func(c course.Course) string { return c.ID },
		course.Course{ID: "c1", Title: "Go", Students: 10, Rating: 4, CreatedAt: day(1)},
		course.Course{ID: "c2", Title: "SQL", Students: 30, Rating: 5, CreatedAt: day(2)},
	))
	salaries := salary.NewService(inmemdb.NewTable(salary.Resource, func(s salary.Salary) string { return s.ID },
		salary.Salary{ID: "s1", InstructorName: "Rob", BaseSalary: 1000, Bonus: 100, NetSalary: 1100, Month: "2024-02"},
		salary.Salary{ID: "s2", InstructorName: "Ken", BaseSalary: 2000, Deductions: 200, NetSalary: 1800, Month: "2024-03"},
	), 0)
	attendances := attendance.NewService(inmemdb.NewTable(attendance.Resource, func(r attendance.Record) string { return r.ID }))
	return NewService(donations, revenues, courses, salaries, attendances, textRenderer{})
}

func TestService_Validate(t *testing.T) {
	svc := newService()
	tests := []struct {
		name      string
		req       Request
		wantField string
		wantCols  []string
	}{
		{name: "no metric", req: Request{Type: Donations}, wantField: "metrics"},
		{name: "blank metrics", req: Request{Type: Donations, Metrics: []string{" ", ""}}, wantField: "metrics"},
		{name: "unknown type", req: Request{Type: "users", Metrics: []string{"name"}}, wantField: "type"},
		{name: "unknown metric", req: Request{Type: Donations, Metrics: []string{"net_salary"}}, wantField: "metrics"},
		{name: "unsupported format", req: Request{Type: Donations, Metrics: []string{"amount"}, Format: PDF}, wantField: "format"},
		{name: "reversed range", req: Request{Type: Donations, Metrics: []string{"amount"}, From: day(10), To: day(1)}, wantField: "to"},
		{
			name:     "columns keep the definition order",
			req:      Request{Type: " Donations ", Metrics: []string{"amount", "DONOR", "amount"}},
			wantCols: []string{"donor", "amount"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cols, err := svc.Validate(&tt.req)
			if tt.wantField != "" {
				var vErr *core.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
				return
			}
			require.NoError(t, err)
			keys := make([]string, 0, len(cols))
			for _, c := range cols {
				keys = append(keys, c.Key)
			}
			assert.Equal(t, tt.wantCols, keys)
			assert.Equal(t, CSV, tt.req.Format, "defaults to csv")
		})
	}

	_, _, err := svc.Validate(&Request{Type: Courses})
	assert.ErrorIs(t, err, ErrNoMetric)
	assert.EqualError(t, err, "select at least one metric")
}

func TestService_Table(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	tbl, err := svc.Table(ctx, Request{Type: Donations, Metrics: []string{"donor", "amount"}, From: day(1), To: day(10)})
	require.NoError(t, err)
	assert.Equal(t, "Donations report", tbl.Title)
	assert.Equal(t, "Mar 1, 2024 to Mar 10, 2024", tbl.Subtitle)
	assert.Equal(t, [][]any{{"Bob", 50.0}, {"Ann", 100.0}}, tbl.Rows, "the whole last day is included")
	assert.Equal(t, []any{"Total", 150.0}, tbl.Totals)

	tbl, err = svc.Table(ctx, Request{Type: Courses, Metrics: []string{"students", "rating"}})
	require.NoError(t, err)
	assert.Equal(t, "All time", tbl.Subtitle)
	assert.Equal(t, []any{40.0, 4.5}, tbl.Totals, "no label when the first column is totalled")

	tbl, err = svc.Table(ctx, Request{Type: Courses, Metrics: []string{"title"}})
	require.NoError(t, err)
	assert.Nil(t, tbl.Totals)

	tbl, err = svc.Table(ctx, Request{Type: Salaries, Metrics: []string{"net_salary", "month"}, From: day(1)})
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"2024-03", 1800.0}}, tbl.Rows, "columns follow the definition order")
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	file, err := svc.Generate(ctx, Request{Type: Donations, Metrics: []string{"donor", "amount"}, From: day(15)})
	require.NoError(t, err)
	assert.Regexp(t, `^donations-report-\d{8}\.csv$`, file.Name)
	assert.Equal(t, core.ContentTypeCSV, file.ContentType)
	assert.Equal(t, "Donor|Amount\nCid|25.5\nTotal|25.5", string(file.Content))

	_, err = svc.Generate(ctx, Request{Type: Attendance, Metrics: []string{"status"}})
	assert.ErrorIs(t, err, core.ErrNothingToExport)

	_, err = svc.Generate(ctx, Request{Type: Revenue})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDefinitions(t *testing.T) {
	svc := newService()
	for _, def := range svc.Definitions() {
		_, ok := svc.sources[def.Type]
		assert.True(t, ok, def.Type)
		assert.NotEmpty(t, def.Metrics, def.Type)
	}
}
