// Command rig-log is a tool for viewing and analyzing rig run record files.
//
// Record files (.rrec) are produced by the harness when a run plan sets an
// output path, or by anything else that writes record.RunRecord values
// through a record.Writer.
//
// Usage:
//
//	rig-log <command> [flags] <file.rrec>
//
// Commands:
//
//	view     View run records in human-readable format
//	export   Export run records to JSONL
//	filter   Filter run records and write to a new file
//	stats    Show statistics about the record file
//
// Examples:
//
//	# View all runs with their log entries
//	rig-log view -logs runs.rrec
//
//	# View only failed runs, warnings and up
//	rig-log view -logs -outcome fail -level warning runs.rrec
//
//	# Export to JSONL
//	rig-log export runs.rrec
//
//	# Keep only cell 2's runs
//	rig-log filter -cell 2 -o cell2.rrec runs.rrec
//
//	# Show statistics
//	rig-log stats runs.rrec
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rigtest/rigtest-go/cmd/rig-log/commands"
	"github.com/rigtest/rigtest-go/pkg/record"
)

const usage = `rig-log - Run Record Analyzer

Usage:
  rig-log <command> [flags] <file.rrec>

Commands:
  view     View run records in human-readable format
  export   Export run records to JSONL
  filter   Filter run records and write to a new file
  stats    Show statistics about the record file

Use "rig-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rig-log view - View run records in human-readable format

Usage:
  rig-log view [flags] <file.rrec>

Flags:
`)
		fs.PrintDefaults()
	}

	showLogs := fs.Bool("logs", false, "Show each run's log entries")
	level := fs.String("level", "", "Minimum entry level (debug, info, warning, error, critical)")
	cell := fs.String("cell", "", "Filter by cell number")
	outcome := fs.String("outcome", "", "Filter by outcome (pass, fail, error, timeout, aborted)")
	dut := fs.String("dut", "", "Filter by DUT serial")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: record file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filterOpts := commands.FilterOptions{
		Cell:      *cell,
		Outcome:   *outcome,
		DUTSerial: *dut,
	}
	filter, err := filterOpts.BuildFilter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := commands.ViewOptions{
		Filter:   filter,
		ShowLogs: *showLogs,
	}
	if *level != "" {
		l, err := record.ParseLevel(*level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts.MinLevel = &l
	}

	if err := commands.RunView(path, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rig-log export - Export run records to JSONL

Usage:
  rig-log export [flags] <file.rrec>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: record file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rig-log filter - Filter run records and write to a new file

Usage:
  rig-log filter [flags] <file.rrec>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	cell := fs.String("cell", "", "Filter by cell number")
	outcome := fs.String("outcome", "", "Filter by outcome (pass, fail, error, timeout, aborted)")
	dut := fs.String("dut", "", "Filter by DUT serial")
	station := fs.String("station", "", "Filter by station ID")
	startAfter := fs.String("start-after", "", "Filter by start time (RFC3339)")
	startBefore := fs.String("start-before", "", "Filter by start time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: record file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:      *output,
		Cell:        *cell,
		Outcome:     *outcome,
		DUTSerial:   *dut,
		StationID:   *station,
		StartAfter:  *startAfter,
		StartBefore: *startBefore,
	}

	if err := commands.RunFilter(fs.Arg(0), opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `rig-log stats - Show statistics about the record file

Usage:
  rig-log stats <file.rrec>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: record file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
