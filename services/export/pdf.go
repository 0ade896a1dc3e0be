package exportsvc

import (
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/report"
)

const (
	pdfMargin = 10.0
	rowHeight = 7.0
)

type PDFRenderer struct {
	Author string
}

var _ report.Renderer = PDFRenderer{}

func (PDFRenderer) Format() report.Format { return report.PDF }
func (PDFRenderer) ContentType() string   { return core.ContentTypePDF }

// Render lays the table out on A4 pages, landscape when it has more than 5 columns.
// The header row is repeated on every page.
func (r PDFRenderer) Render(w io.Writer, t report.Table) error {
	orientation := "P"
	if len(t.Columns) > 5 {
		orientation = "L"
	}
	pdf := fpdf.New(orientation, "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	if r.Author != "" {
		pdf.SetAuthor(r.Author, true)
		pdf.SetCreator(r.Author, true)
	}
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin - 2)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(t.Title)+" - page "+strconv.Itoa(pdf.PageNo())+"/{nb}", "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	colW := (pageW - 2*pdfMargin) / float64(max(len(t.Columns), 1))

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(t.Subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(30, 42, 74)
		pdf.SetTextColor(255, 255, 255)
		for _, col := range t.Columns {
			pdf.CellFormat(colW, rowHeight, fit(pdf, tr(col.Label), colW), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}
	line := func(cells []any, style string, fill bool) {
		if pdf.GetY()+rowHeight > pageH-pdfMargin-8 {
			pdf.AddPage()
			header()
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.SetFillColor(243, 244, 246)
		for _, c := range cells {
			align := "L"
			if _, ok := c.(float64); ok {
				align = "R"
			}
			pdf.CellFormat(colW, rowHeight, fit(pdf, tr(report.Text(c)), colW), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	header()
	for i, row := range t.Rows {
		line(row, "", i%2 == 1)
	}
	if t.Totals != nil {
		line(t.Totals, "B", true)
	}
	return errors.Wrap(pdf.Output(w), "writing pdf")
}

// fit cuts s so that it fits in a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	const pad = 2.0
	if pdf.GetStringWidth(s) <= w-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}
