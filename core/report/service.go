// Package report builds tabular reports out of the academy records and renders them as files.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/attendance"
	"github.com/trezcool/akademi/core/course"
	"github.com/trezcool/akademi/core/donation"
	"github.com/trezcool/akademi/core/listing"
	"github.com/trezcool/akademi/core/revenue"
	"github.com/trezcool/akademi/core/salary"
)

// ErrNoMetric is returned when a report is asked without any metric.
var ErrNoMetric = errors.New("select at least one metric")

type filterer[T any] interface {
	Filtered(ctx context.Context, c listing.Criteria) ([]T, error)
}

// rowsFunc returns one map of metric values per record in the date range.
type rowsFunc func(ctx context.Context, c listing.Criteria) ([]map[string]any, error)

func source[T any](svc filterer[T], row func(T) map[string]any) rowsFunc {
	return func(ctx context.Context, c listing.Criteria) ([]map[string]any, error) {
		recs, err := svc.Filtered(ctx, c)
		if err != nil {
			return nil, err
		}
		rows := make([]map[string]any, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, row(r))
		}
		return rows, nil
	}
}

type Service struct {
	definitions []Definition
	sources     map[Type]rowsFunc
	renderers   map[Format]Renderer
}

func NewService(
	donations *donation.Service,
	revenues *revenue.Service,
	courses *course.Service,
	salaries *salary.Service,
	attendances *attendance.Service,
	renderers ...Renderer,
) *Service {
	svc := &Service{
		definitions: Definitions,
		sources: map[Type]rowsFunc{
			Donations: source[donation.Donation](donations, func(d donation.Donation) map[string]any {
				return map[string]any{
					"date":     d.Date,
					"donor":    d.Donor,
					"campaign": d.Campaign,
					"type":     d.Type,
					"status":   d.Status,
					"amount":   d.Amount,
				}
			}),
			Revenue: source[revenue.Entry](revenues, func(e revenue.Entry) map[string]any {
				return map[string]any{
					"month":       e.Month.Format("2006-01"),
					"source":      e.Source,
					"description": e.Description,
					"revenue":     e.Revenue,
					"cost_total":  e.CostTotal,
					"profit":      e.Revenue - e.CostTotal,
					"margin":      listing.Round(e.Margin * 100),
				}
			}),
			Courses: source[course.Course](courses, func(c course.Course) map[string]any {
				return map[string]any{
					"title":      c.Title,
					"instructor": c.Instructor,
					"category":   c.Category,
					"status":     c.Status,
					"students":   float64(c.Students),
					"price":      c.Price,
					"revenue":    c.Revenue,
					"rating":     c.Rating,
					"progress":   c.Progress,
				}
			}),
			Salaries: source[salary.Salary](salaries, func(s salary.Salary) map[string]any {
				return map[string]any{
					"month":           s.Month,
					"instructor_name": s.InstructorName,
					"status":          s.Status,
					"base_salary":     s.BaseSalary,
					"bonus":           s.Bonus,
					"deductions":      s.Deductions,
					"net_salary":      s.NetSalary,
				}
			}),
			Attendance: source[attendance.Record](attendances, func(r attendance.Record) map[string]any {
				present := 0.0
				if r.Status == attendance.StatusPresent || r.Status == attendance.StatusLate {
					present = 1
				}
				return map[string]any{
					"date":         r.Date,
					"student_name": r.StudentName,
					"course":       r.Course,
					"status":       r.Status,
					"note":         r.Note,
					"attended":     present,
				}
			}),
		},
		renderers: make(map[Format]Renderer, len(renderers)),
	}
	for _, r := range renderers {
		svc.renderers[r.Format()] = r
	}
	return svc
}

// Definitions lists the report types and their allowed metrics.
var Definitions = []Definition{
	{Type: Donations, Title: "Donations report", Metrics: []Metric{
		{Key: "date", Label: "Date"},
		{Key: "donor", Label: "Donor"},
		{Key: "campaign", Label: "Campaign"},
		{Key: "type", Label: "Type"},
		{Key: "status", Label: "Status"},
		{Key: "amount", Label: "Amount", Aggregate: Total},
	}},
	{Type: Revenue, Title: "Revenue report", Metrics: []Metric{
		{Key: "month", Label: "Month"},
		{Key: "source", Label: "Source"},
		{Key: "description", Label: "Description"},
		{Key: "revenue", Label: "Revenue", Aggregate: Total},
		{Key: "cost_total", Label: "Costs", Aggregate: Total},
		{Key: "profit", Label: "Profit", Aggregate: Total},
		{Key: "margin", Label: "Margin (%)", Aggregate: Mean},
	}},
	{Type: Courses, Title: "Courses report", Metrics: []Metric{
		{Key: "title", Label: "Title"},
		{Key: "instructor", Label: "Instructor"},
		{Key: "category", Label: "Category"},
		{Key: "status", Label: "Status"},
		{Key: "students", Label: "Students", Aggregate: Total},
		{Key: "price", Label: "Price", Aggregate: Mean},
		{Key: "revenue", Label: "Revenue", Aggregate: Total},
		{Key: "rating", Label: "Rating", Aggregate: Mean},
		{Key: "progress", Label: "Progress (%)", Aggregate: Mean},
	}},
	{Type: Salaries, Title: "Salaries report", Metrics: []Metric{
		{Key: "month", Label: "Month"},
		{Key: "instructor_name", Label: "Instructor"},
		{Key: "status", Label: "Status"},
		{Key: "base_salary", Label: "Base salary", Aggregate: Total},
		{Key: "bonus", Label: "Bonus", Aggregate: Total},
		{Key: "deductions", Label: "Deductions", Aggregate: Total},
		{Key: "net_salary", Label: "Net salary", Aggregate: Total},
	}},
	{Type: Attendance, Title: "Attendance report", Metrics: []Metric{
		{Key: "date", Label: "Date"},
		{Key: "student_name", Label: "Student"},
		{Key: "course", Label: "Course"},
		{Key: "status", Label: "Status"},
		{Key: "note", Label: "Note"},
		{Key: "attended", Label: "Attended", Aggregate: Total},
	}},
}

func (svc *Service) Definitions() []Definition {
	return svc.definitions
}

func (svc *Service) definition(t Type) (Definition, bool) {
	for _, d := range svc.definitions {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

// Validate normalizes req and returns the definition and the columns it asks for.
func (svc *Service) Validate(req *Request) (Definition, []Metric, error) {
	req.Type = Type(core.CleanString(string(req.Type), true /* lower */))
	req.Format = Format(core.CleanString(string(req.Format), true /* lower */))
	if req.Format == "" {
		req.Format = CSV
	}

	def, ok := svc.definition(req.Type)
	if !ok {
		return Definition{}, nil, invalid("type", fmt.Sprintf("unknown report type %q", req.Type))
	}
	if _, ok = svc.renderers[req.Format]; !ok {
		return Definition{}, nil, invalid("format", "format must be one of [csv xlsx pdf]")
	}
	if !req.From.IsZero() {
		req.From = req.From.UTC()
	}
	if !req.To.IsZero() {
		req.To = req.To.UTC()
		if req.To.Equal(req.To.Truncate(24 * time.Hour)) {
			// a bare date includes the whole day
			req.To = req.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return Definition{}, nil, invalid("to", "the end date must not be before the start date")
	}

	// columns keep the definition order, whatever the order they were asked in
	wanted := make(map[string]bool, len(req.Metrics))
	for _, key := range req.Metrics {
		key = core.CleanString(key, true /* lower */)
		if key == "" {
			continue
		}
		if _, ok = def.metric(key); !ok {
			return Definition{}, nil, invalid("metrics", fmt.Sprintf("unknown %s metric %q", def.Type, key))
		}
		wanted[key] = true
	}
	if len(wanted) == 0 {
		return Definition{}, nil, core.NewValidationError(ErrNoMetric, core.FieldError{Field: "metrics", Error: ErrNoMetric.Error()})
	}
	cols := make([]Metric, 0, len(wanted))
	for _, m := range def.Metrics {
		if wanted[m.Key] {
			cols = append(cols, m)
		}
	}
	return def, cols, nil
}

// Table pulls the records of the report type in the date range and lays them out.
func (svc *Service) Table(ctx context.Context, req Request) (Table, error) {
	return svc.table(ctx, &req)
}

func (svc *Service) table(ctx context.Context, req *Request) (Table, error) {
	def, cols, err := svc.Validate(req)
	if err != nil {
		return Table{}, err
	}

	rows, err := svc.sources[def.Type](ctx, listing.Criteria{From: req.From, To: req.To})
	if err != nil {
		return Table{}, errors.Wrap(err, "querying "+string(def.Type))
	}

	t := Table{
		Title:    def.Title,
		Subtitle: period(*req),
		Columns:  cols,
		Rows:     make([][]any, 0, len(rows)),
	}
	sums := make([]float64, len(cols))
	for _, row := range rows {
		cells := make([]any, len(cols))
		for i, col := range cols {
			cells[i] = row[col.Key]
			if v, ok := row[col.Key].(float64); ok {
				sums[i] += v
			}
		}
		t.Rows = append(t.Rows, cells)
	}

	var totalled bool
	totals := make([]any, len(cols))
	for i, col := range cols {
		switch col.Aggregate {
		case Total:
			totals[i] = listing.Round(sums[i])
			totalled = true
		case Mean:
			totals[i] = listing.Round(listing.Ratio(sums[i], float64(len(rows))))
			totalled = true
		}
	}
	if totalled {
		if totals[0] == nil {
			totals[0] = "Total"
		}
		t.Totals = totals
	}
	return t, nil
}

// Generate renders the report. It returns core.ErrNothingToExport when no record falls in the range.
func (svc *Service) Generate(ctx context.Context, req Request) (core.File, error) {
	t, err := svc.table(ctx, &req)
	if err != nil {
		return core.File{}, err
	}
	if len(t.Rows) == 0 {
		return core.File{}, core.ErrNothingToExport
	}

	r := svc.renderers[req.Format]
	var buf bytes.Buffer
	if err = r.Render(&buf, t); err != nil {
		return core.File{}, errors.Wrapf(err, "rendering %s report", req.Format)
	}
	return core.File{
		Name:        filename(req.Type, req.Format, core.Now()),
		ContentType: r.ContentType(),
		Content:     buf.Bytes(),
	}, nil
}

func period(req Request) string {
	const layout = "Jan 2, 2006"
	switch {
	case req.From.IsZero() && req.To.IsZero():
		return "All time"
	case req.To.IsZero():
		return "From " + req.From.Format(layout)
	case req.From.IsZero():
		return "Until " + req.To.Format(layout)
	}
	return strings.Join([]string{req.From.Format(layout), req.To.Format(layout)}, " to ")
}
