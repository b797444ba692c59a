package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/color"
	"golang.org/x/term"

	"github.com/trezcool/rollcall/core/attendance"
	"github.com/trezcool/rollcall/core/preference"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("no database: set the database engine to postgres")
)

type commandLine struct {
	db      *sql.DB
	prefSvc *preference.Service
	attSvc  *attendance.Service
	out     io.Writer
	clr     *color.Color
}

func newCommandLine(db *sql.DB, prefSvc *preference.Service, attSvc *attendance.Service, out io.Writer) *commandLine {
	clr := color.New()
	clr.SetOutput(out)
	if f, ok := out.(*os.File); ok && isTerminalFunc(int(f.Fd())) {
		clr.Enable()
	} else {
		clr.Disable()
	}
	return &commandLine{db: db, prefSvc: prefSvc, attSvc: attSvc, out: out, clr: clr}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run goose COMMAND (up, down, status, ...) against the database")
	fmt.Fprintln(cli.out, "  darkmode status|on|off|toggle - read or change the stored dark mode preference")
	fmt.Fprintln(cli.out, "  report -section SECTION - print the attendance summary of SECTION")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportSection := reportCmd.String("section", "", "The section to summarise, e.g. 10-A.")

	ctx := context.Background()
	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "darkmode":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.darkMode(ctx, args[2])
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportSection == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(ctx, *reportSection)
	default:
		cli.printUsage()
		return errHelp
	}
}
