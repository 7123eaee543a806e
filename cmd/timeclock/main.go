// Package main provides the timeclock CLI application.
//
// Timeclock tracks work sessions as start/stop intervals with an
// optional note, persists them durably to a JSON file, and derives
// "today" and all-time totals from the interval set.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run() error {
	// Define global flags.
	configPath := flag.String("config", "", "path to configuration file")
	dataFile := flag.String("data", "", "path to sessions data file (overrides config)")
	recoverData := flag.Bool("recover", false, "archive a corrupt data file and start fresh")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Parse()

	if *showVersion {
		fmt.Printf("timeclock %s\n", version)
		return nil
	}

	g := globalOptions{
		configPath:  *configPath,
		dataFile:    *dataFile,
		recoverData: *recoverData,
	}

	args := flag.Args()
	if len(args) == 0 {
		return showUsage()
	}

	command := args[0]

	switch command {
	case "start":
		return runStartCommand(g, args[1:])
	case "stop":
		return runStopCommand(g)
	case "toggle":
		return runToggleCommand(g, args[1:])
	case "status":
		return runStatusCommand(g, args[1:])
	case "list":
		return runListCommand(g, args[1:])
	case "delete":
		return runDeleteCommand(g, args[1:])
	case "export":
		return runExportCommand(g, args[1:])
	case "watch":
		return runWatchCommand(g, args[1:])
	case "archive":
		return runArchiveCommand(g, args[1:])
	case "config":
		return runConfigCommand(g, args[1:])
	case "help":
		return showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// globalOptions carries the global flags into commands.
type globalOptions struct {
	configPath  string
	dataFile    string
	recoverData bool
}

// runStartCommand runs the start command.
func runStartCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	note := fs.String("note", "", "free-text note for the session")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &startCommand{
		global: g,
		note:   *note,
	}
	return cmd.Execute()
}

// runStopCommand runs the stop command.
func runStopCommand(g globalOptions) error {
	cmd := &stopCommand{global: g}
	return cmd.Execute()
}

// runToggleCommand runs the toggle command.
func runToggleCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	note := fs.String("note", "", "note used if a session is started")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &toggleCommand{
		global: g,
		note:   *note,
	}
	return cmd.Execute()
}

// runStatusCommand runs the status command.
func runStatusCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	format := fs.String("format", "", "output format (table, simple, json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &statusCommand{
		global: g,
		format: *format,
	}
	return cmd.Execute()
}

// runListCommand runs the list command.
func runListCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	format := fs.String("format", "", "output format (table, simple, json)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &listCommand{
		global: g,
		format: *format,
	}
	return cmd.Execute()
}

// runDeleteCommand runs the delete command.
func runDeleteCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	force := fs.Bool("force", false, "skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return fmt.Errorf("delete requires at least one session ID")
	}

	cmd := &deleteCommand{
		global: g,
		ids:    fs.Args(),
		force:  *force,
	}
	return cmd.Execute()
}

// runExportCommand runs the export command.
func runExportCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: timeclock_<timestamp>.csv, \"-\" for stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &exportCommand{
		global: g,
		output: *output,
	}
	return cmd.Execute()
}

// runWatchCommand runs the watch command.
func runWatchCommand(g globalOptions, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	refresh := fs.Duration("refresh", time.Second, "refresh interval (e.g., 1s, 500ms)")
	simple := fs.Bool("simple", false, "plain line output instead of the full-screen view")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := &watchCommand{
		global:      g,
		refresh:     *refresh,
		clearScreen: !*simple,
	}
	return cmd.Execute()
}

// runArchiveCommand runs the archive command.
func runArchiveCommand(g globalOptions, args []string) error {
	cmd := &archiveCommand{global: g}
	return cmd.Execute(args)
}

// runConfigCommand runs the config command.
func runConfigCommand(g globalOptions, args []string) error {
	cmd := &configCommand{global: g}
	return cmd.Execute(args)
}

// showUsage displays usage information.
func showUsage() error {
	usage := `Timeclock - work session tracking

Usage:
  timeclock [flags] <command> [command flags]

Commands:
  start       Start a new session
  stop        Stop the running session
  toggle      Start if idle, stop if running
  status      Show running state and totals
  list        List all sessions
  delete      Delete sessions by ID
  export      Export sessions to CSV
  watch       Live view, refreshed while a session runs
  archive     Archive management (list)
  config      Configuration management (show, path, reset)
  help        Show this help message

Global Flags:
  -config     Path to configuration file
  -data       Path to sessions data file (overrides config)
  -recover    Archive a corrupt data file and start fresh
  -version    Show version information

Start/Toggle Flags:
  -note       Free-text note for the session

Status/List Flags:
  -format     Output format (table, simple, json)

Delete Flags:
  -force      Skip confirmation prompt

Export Flags:
  -o          Output file ("-" for stdout)

Watch Flags:
  -refresh    Refresh interval (default: 1s)
  -simple     Plain line output instead of the full-screen view

Examples:
  # Start working on something
  timeclock start -note "write report"

  # Check where the day stands
  timeclock status

  # Stop the running session
  timeclock stop

  # List sessions as JSON
  timeclock list -format json

  # Delete sessions 3 and 5 without a prompt
  timeclock delete -force 3 5

  # Export everything to a CSV file
  timeclock export -o report.csv

  # Live view; SIGUSR1 toggles the session
  timeclock watch

Version: %s
`

	fmt.Printf(usage, version)
	return nil
}
