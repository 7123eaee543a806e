package main

import (
	"fmt"
)

// archiveCommand inspects the archive of deleted sessions.
type archiveCommand struct {
	global globalOptions
}

// Execute runs an archive subcommand.
func (c *archiveCommand) Execute(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		return c.list()
	default:
		return fmt.Errorf("unknown archive subcommand: %s (valid: list)", sub)
	}
}

// list prints all archived session records, oldest first.
func (c *archiveCommand) list() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	arc, err := a.openArchive()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := arc.Close(); closeErr != nil {
			a.logger.Error("failed to close archive", "error", closeErr)
		}
	}()

	records, err := arc.ListDeleted()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}

	fmt.Printf("%-20s  %-25s  %-25s  %s\n", "Archived", "Start", "End", "Note")
	for _, r := range records {
		end := r.End
		if end == "" {
			end = "(running)"
		}
		fmt.Printf("%-20s  %-25s  %-25s  %s\n",
			r.ArchivedAt.Format("2006-01-02 15:04:05"),
			r.Start,
			end,
			r.Note)
	}

	fmt.Printf("\n%d archived session(s)\n", len(records))
	return nil
}
