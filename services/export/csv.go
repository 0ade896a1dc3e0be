// Package exportsvc renders report tables as CSV, XLSX and PDF files.
package exportsvc

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/report"
)

type CSVRenderer struct{}

var _ report.Renderer = CSVRenderer{}

func (CSVRenderer) Format() report.Format { return report.CSV }
func (CSVRenderer) ContentType() string   { return core.ContentTypeCSV }

func (CSVRenderer) Render(w io.Writer, t report.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(texts(row)); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	if t.Totals != nil {
		if err := cw.Write(texts(t.Totals)); err != nil {
			return errors.Wrap(err, "writing csv totals")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing csv")
}

func texts(cells []any) []string {
	res := make([]string, len(cells))
	for i, c := range cells {
		res[i] = report.Text(c)
	}
	return res
}
