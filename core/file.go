package core

// File is a generated document (export, report, certificate) ready to be downloaded or attached.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypePNG  = "image/png"
	ContentTypeSVG  = "image/svg+xml"
)
