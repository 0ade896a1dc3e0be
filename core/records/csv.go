package records

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
)

// CSVCodec maps records to CSV rows and back. Header names are lower case.
type CSVCodec[T any] struct {
	Header []string
	Encode func(T) []string
	// Decode builds a new record from a row, falling back to defaults for missing values.
	Decode func(Row) (T, error)
}

// Row is a CSV line keyed by (lower cased) header name.
type Row map[string]string

func (r Row) String(key, fallback string) string {
	if v := strings.TrimSpace(r[key]); v != "" {
		return v
	}
	return fallback
}

func (r Row) Float(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(r[key])
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: key, Error: "invalid number " + strconv.Quote(v)})
	}
	return f, nil
}

func (r Row) Int(key string, fallback int) (int, error) {
	v := strings.TrimSpace(r[key])
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: key, Error: "invalid integer " + strconv.Quote(v)})
	}
	return i, nil
}

func (r Row) Bool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(r[key])
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, core.NewValidationError(err, core.FieldError{Field: key, Error: "invalid boolean " + strconv.Quote(v)})
	}
	return b, nil
}

// Time accepts RFC3339 timestamps and YYYY-MM-DD dates.
func (r Row) Time(key string, fallback time.Time) (time.Time, error) {
	v := strings.TrimSpace(r[key])
	if v == "" {
		return fallback, nil
	}
	t, err := ParseTime(v)
	if err != nil {
		return time.Time{}, core.NewValidationError(err, core.FieldError{Field: key, Error: "invalid date " + strconv.Quote(v)})
	}
	return t, nil
}

// ParseTime accepts RFC3339 timestamps and YYYY-MM-DD dates (UTC).
func ParseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parsing date")
	}
	return t.UTC(), nil
}

const DateLayout = "2006-01-02"

// FormatFloat formats money and scores without trailing zeros.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ExportCSV writes the filtered and sorted collection as CSV.
// core.ErrNothingToExport is returned, and nothing written, when the filtered collection is empty.
func (svc *Service[T, S]) ExportCSV(ctx context.Context, c listing.Criteria, w io.Writer) (int, error) {
	items, err := svc.Filtered(ctx, c)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, core.ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err = cw.Write(svc.CSV.Header); err != nil {
		return 0, errors.Wrap(err, "writing csv header")
	}
	for _, item := range items {
		if err = cw.Write(svc.CSV.Encode(item)); err != nil {
			return 0, errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return len(items), errors.Wrap(cw.Error(), "flushing csv")
}

// ImportCSV creates one record per CSV line. Blank lines are skipped.
// The import stops at the first invalid line; records created before it are kept.
func (svc *Service[T, S]) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return 0, nil
	} else if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: "file", Error: "invalid csv"})
	}
	for i, h := range header {
		header[i] = core.CleanString(strings.TrimPrefix(h, "\ufeff"), true /* lower */)
	}

	var imported int
	for line := 2; ; line++ {
		values, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return imported, core.NewValidationError(err, core.FieldError{Field: "file", Error: "invalid csv"})
		}

		row := make(Row, len(header))
		var blank = true
		for i, v := range values {
			if i < len(header) {
				row[header[i]] = v
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		rec, err := svc.CSV.Decode(row)
		if err != nil {
			return imported, errors.Wrapf(err, "line %d", line)
		}
		if _, err = svc.Repo.Create(ctx, rec); err != nil {
			return imported, errors.Wrap(err, "creating "+svc.Schema.Resource)
		}
		imported++
	}
	return imported, nil
}
