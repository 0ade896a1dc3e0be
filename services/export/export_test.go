package exportsvc

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/akademi/core/report"
)

func table(rows int) report.Table {
	t := report.Table{
		Title:    "Donations report",
		Subtitle: "All time",
		Columns: []report.Metric{
			{Key: "date", Label: "Date"},
			{Key: "donor", Label: "Donor"},
			{Key: "amount", Label: "Amount", Aggregate: report.Total},
		},
		Totals: []any{"Total", nil, 150.5},
	}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []any{time.Date(2024, 3, 1+i%28, 0, 0, 0, 0, time.UTC), fmt.Sprintf("Donor, %d", i), 100.5})
	}
	return t
}

func TestCSVRenderer(t *testing.T) {
	tbl := table(1)
	tbl.Rows = append(tbl.Rows, []any{time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "Ann", 50.0})

	var buf bytes.Buffer
	require.NoError(t, CSVRenderer{}.Render(&buf, tbl))
	assert.Equal(t, "Date,Donor,Amount\n2024-03-01,\"Donor, 0\",100.5\n2024-03-02,Ann,50\nTotal,,150.5\n", buf.String())
}

func TestXLSXRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXRenderer{}.Render(&buf, table(2)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Donations report", title)

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, headerRow+3)
	assert.Equal(t, []string{"Date", "Donor", "Amount"}, rows[headerRow-1])
	assert.Equal(t, []string{"2024-03-01", "Donor, 0", "100.5"}, rows[headerRow])
	assert.Equal(t, []string{"Total", "", "150.5"}, rows[headerRow+2])
}

func TestPDFRenderer(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		wantPages int
	}{
		{name: "single page", rows: 3, wantPages: 1},
		{name: "long tables break pages", rows: 120, wantPages: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PDFRenderer{Author: "Akademi"}.Render(&buf, table(tt.rows)))
			raw := buf.Bytes()
			assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
			assert.Equal(t, tt.wantPages, bytes.Count(raw, []byte("/Type /Page\n")))
		})
	}
}
