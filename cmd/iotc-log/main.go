// Command iotc-log views and analyzes provisioning event logs.
//
// Log files are written by iotc-provision when run with -protocol-log.
//
// Usage:
//
//	iotc-log <command> [flags] <file.plog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Filter flags (all commands):
//
//	-attempt string   Attempt ID
//	-device string    Device ID
//	-user string      User ID
//	-since string     Events at or after this time (RFC3339)
//	-until string     Events before this time (RFC3339)
//	-layer string     workflow, source, decode, connect, store
//	-category string  state, attempt, error
//
// Examples:
//
//	# View all failed decode stages
//	iotc-log view -layer decode provision.plog
//
//	# Export one attempt to CSV
//	iotc-log export -format csv -attempt 3f2a9c1e-... provision.plog
//
//	# Show statistics for one user
//	iotc-log stats -user alice provision.plog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iotc-provision/provision-go/cmd/iotc-log/commands"
)

const usage = `iotc-log - Provisioning Log Analyzer

Usage:
  iotc-log <command> [flags] <file.plog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "iotc-log <command> -help" for more information about a command.
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

// newFlagSet creates a flag set carrying the shared filter flags.
func newFlagSet(name, synopsis string) (*flag.FlagSet, *commands.FilterOptions) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "iotc-log %s - %s\n\nUsage:\n  iotc-log %s [flags] <file.plog>\n\nFlags:\n", name, synopsis, name)
		fs.PrintDefaults()
	}

	var opts commands.FilterOptions
	fs.StringVar(&opts.AttemptID, "attempt", "", "Filter by attempt ID")
	fs.StringVar(&opts.DeviceID, "device", "", "Filter by device ID")
	fs.StringVar(&opts.UserID, "user", "", "Filter by user ID")
	fs.StringVar(&opts.Since, "since", "", "Filter events at or after this time (RFC3339)")
	fs.StringVar(&opts.Until, "until", "", "Filter events before this time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (workflow, source, decode, connect, store)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (state, attempt, error)")
	return fs, &opts
}

// logPath parses args and returns the log file argument.
func logPath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs, opts := newFlagSet("view", "View log file in human-readable format")
	path := logPath(fs, args)
	exitOnError(commands.RunView(path, *opts, os.Stdout))
}

func runExport(args []string) {
	fs, opts := newFlagSet("export", "Export log file to JSONL or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := logPath(fs, args)
	exitOnError(commands.RunExport(path, *format, *output, *opts))
}

func runFilter(args []string) {
	fs, opts := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	path := logPath(fs, args)
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}
	exitOnError(commands.RunFilter(path, *output, *opts, os.Stdout))
}

func runStats(args []string) {
	fs, opts := newFlagSet("stats", "Show statistics about the log file")
	path := logPath(fs, args)
	exitOnError(commands.RunStats(path, *opts, os.Stdout))
}
