package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/akademi/apps"
	"github.com/trezcool/akademi/core"
	"github.com/trezcool/akademi/core/listing"
)

type csvResource interface {
	ExportCSV(ctx context.Context, c listing.Criteria, w io.Writer) (int, error)
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}

var resourceNames = []string{
	"courses", "donations", "instructors", "employees", "salaries",
	"notifications", "revenue", "attendance", "progress", "grades",
}

func (cli *commandLine) resource(name string) (csvResource, error) {
	s := cli.svcs
	res, ok := map[string]csvResource{
		"courses":       s.Courses,
		"donations":     s.Donations,
		"instructors":   s.Instructors,
		"employees":     s.Employees,
		"salaries":      s.Salaries,
		"notifications": s.Notifications,
		"revenue":       s.Revenue,
		"attendance":    s.Attendance,
		"progress":      s.Progress,
		"grades":        s.Grades,
	}[name]
	if !ok {
		return nil, apps.NewArgumentError(fmt.Sprintf("unknown resource %q", name))
	}
	return res, nil
}

// export writes the matching records to path, or to the CLI output when path is empty.
// No file is created when nothing matches.
func (cli *commandLine) export(ctx context.Context, name, path, search string) error {
	res, err := cli.resource(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	n, err := res.ExportCSV(ctx, listing.Criteria{Search: search}, &buf)
	if err != nil {
		if errors.Is(err, core.ErrNothingToExport) {
			fmt.Fprintf(cli.out, "no %s to export\n", name)
			return nil
		}
		return err
	}

	if path == "" {
		_, err = buf.WriteTo(cli.out)
		return err
	}
	if err = os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing export file")
	}
	fmt.Fprintf(cli.out, "%d %s exported to %s\n", n, name, path)
	return nil
}

func (cli *commandLine) importCSV(ctx context.Context, name, path string) error {
	res, err := cli.resource(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening import file")
	}
	defer func() { _ = f.Close() }()

	n, err := res.ImportCSV(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d %s imported\n", n, name)
	return nil
}
