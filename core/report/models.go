package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/akademi/core"
)

type Type string

const (
	Donations  Type = "donations"
	Revenue    Type = "revenue"
	Courses    Type = "courses"
	Salaries   Type = "salaries"
	Attendance Type = "attendance"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	PDF  Format = "pdf"
)

// Aggregate is how a column is totalled.
type Aggregate int

const (
	None Aggregate = iota
	Total
	Mean
)

// Metric is a column a report can have.
type Metric struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Aggregate Aggregate `json:"-"`
}

// Definition describes a report type and its allowed metrics, in display order.
type Definition struct {
	Type    Type     `json:"type"`
	Title   string   `json:"title"`
	Metrics []Metric `json:"metrics"`
}

func (d Definition) metric(key string) (Metric, bool) {
	for _, m := range d.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

type Request struct {
	Type    Type      `json:"type"`
	Metrics []string  `json:"metrics"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"` // inclusive
	Format  Format    `json:"format"`
}

// Table is what renderers lay out: a header row, the record rows and a totals row.
// Cells hold strings or float64s.
type Table struct {
	Title    string
	Subtitle string
	Columns  []Metric
	Rows     [][]any
	Totals   []any // nil when no column is totalled
}

// Renderer writes a table in one file format.
type Renderer interface {
	Format() Format
	ContentType() string
	Render(w io.Writer, t Table) error
}

// Text formats a cell.
func Text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.Format("2006-01-02")
	}
	return ""
}

func filename(t Type, f Format, now time.Time) string {
	return strings.Join([]string{string(t), "report", now.Format("20060102")}, "-") + "." + string(f)
}

func invalid(field, msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
}
