package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/trezcool/akademi/apps"
	"github.com/trezcool/akademi/apps/shared"
	"github.com/trezcool/akademi/core"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	db   *sql.DB // nil with the in-memory engine
	svcs *shared.Services
	conf *core.Config
	in   io.Reader
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                           - run a goose command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed                                             - load the demo data into empty collections")
	fmt.Fprintln(cli.out, "  export -resource NAME [-out FILE] [-search TEXT] - export records as CSV")
	fmt.Fprintln(cli.out, "  import -resource NAME -file FILE                 - import records from a CSV file")
	fmt.Fprintln(cli.out, "  purge-notifications [-older-than DURATION] [-yes] - delete old notifications")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportResource := exportCmd.String("resource", "", "One of: "+strings.Join(resourceNames, ", "))
	exportOut := exportCmd.String("out", "", "The CSV file to write. Defaults to stdout.")
	exportSearch := exportCmd.String("search", "", "Only export the records matching this text.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importResource := importCmd.String("resource", "", "One of: "+strings.Join(resourceNames, ", "))
	importFile := importCmd.String("file", "", "The CSV file to read.")

	purgeCmd := flag.NewFlagSet("purge-notifications", flag.ContinueOnError)
	purgeOlderThan := purgeCmd.Duration("older-than", cli.conf.Notifications.Retention, "Delete the notifications older than this.")
	purgeYes := purgeCmd.Bool("yes", false, "Do not ask for confirmation.")

	for _, fs := range []*flag.FlagSet{exportCmd, importCmd, purgeCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			fmt.Fprintln(cli.out, "Usage: migrate COMMAND [ARGS]")
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "seed":
		return cli.seed(ctx)

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportResource == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, *exportResource, *exportOut, *exportSearch)

	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importResource == "" || *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importCSV(ctx, *importResource, *importFile)

	case "purge-notifications":
		if err := purgeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *purgeOlderThan <= 0 {
			return apps.NewArgumentError("-older-than must be positive")
		}
		if !*purgeYes {
			if err := cli.confirm(fmt.Sprintf("Delete the read notifications older than %s? [y/N] ", *purgeOlderThan)); err != nil {
				return err
			}
		}
		return cli.purgeNotifications(ctx, *purgeOlderThan)

	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question on the terminal.
func (cli *commandLine) confirm(question string) error {
	if !isTerminalFunc(syscall.Stdin) {
		return apps.NewArgumentError("not a terminal: pass -yes to confirm")
	}
	fmt.Fprint(cli.out, question)
	answer, err := bufio.NewReader(cli.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errAborted
}

func (cli *commandLine) seed(ctx context.Context) error {
	counts, err := cli.svcs.Seed(ctx)
	if err != nil {
		return err
	}
	for _, name := range resourceNames {
		if n, ok := counts[name]; ok {
			fmt.Fprintf(cli.out, "%s: %d\n", name, n)
		}
	}
	return nil
}

func (cli *commandLine) purgeNotifications(ctx context.Context, olderThan time.Duration) error {
	n, err := cli.svcs.Notifications.Purge(ctx, olderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d notifications deleted\n", n)
	return nil
}
