package exportsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/report"
)

const (
	sheetName = "Report"
	headerRow = 4
)

type XLSXRenderer struct{}

var _ report.Renderer = XLSXRenderer{}

func (XLSXRenderer) Format() report.Format { return report.XLSX }
func (XLSXRenderer) ContentType() string   { return core.ContentTypeXLSX }

// Render writes the title and period on the first rows, then the table from row 4.
func (XLSXRenderer) Render(w io.Writer, t report.Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "closing workbook")
		}
	}()

	if err = f.SetSheetName("Sheet1", sheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating style")
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return errors.Wrap(err, "creating style")
	}

	_ = f.SetCellValue(sheetName, "A1", t.Title)
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	_ = f.SetCellValue(sheetName, "A2", t.Subtitle)

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Label
	}
	if err = setRow(f, headerRow, header, bold); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err = setRow(f, headerRow+1+i, cells(row), 0); err != nil {
			return err
		}
	}
	if t.Totals != nil {
		if err = setRow(f, headerRow+1+len(t.Rows), cells(t.Totals), bold); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(max(len(t.Columns), 1))
	if err != nil {
		return errors.Wrap(err, "naming column")
	}
	if err = f.SetColWidth(sheetName, "A", last, 20); err != nil {
		return errors.Wrap(err, "sizing columns")
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

func setRow(f *excelize.File, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "naming cell")
	}
	if err = f.SetSheetRow(sheetName, start, &values); err != nil {
		return errors.Wrapf(err, "writing row %d", row)
	}
	if style == 0 || len(values) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return errors.Wrap(err, "naming cell")
	}
	return errors.Wrap(f.SetCellStyle(sheetName, start, end, style), "styling row")
}

// cells keeps numbers as numbers so the spreadsheet can sum them.
func cells(row []any) []interface{} {
	res := make([]interface{}, len(row))
	for i, c := range row {
		if v, ok := c.(float64); ok {
			res[i] = v
		} else {
			res[i] = report.Text(c)
		}
	}
	return res
}
