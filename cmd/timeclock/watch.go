package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xmhha/timeclock/pkg/clock"
	"github.com/0xmhha/timeclock/pkg/monitor"
	"github.com/0xmhha/timeclock/pkg/watcher"
)

// watchCommand runs the live view.
type watchCommand struct {
	global      globalOptions
	refresh     time.Duration
	clearScreen bool
}

// Execute runs the watch command.
//
// The view refreshes on a ticker and on data file changes, so edits
// made by another timeclock process show up without restarting. SIGUSR1
// toggles the session, which gives notification daemons and keybinding
// tools a way to start or stop work without a second invocation.
func (c *watchCommand) Execute() error {
	a, err := newApp(c.global)
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval: a.cfg.Watch.DebounceInterval,
	}, a.logger)
	if err != nil {
		return err
	}

	refresh := c.refresh
	if refresh <= 0 {
		refresh = a.cfg.Watch.RefreshInterval
	}

	mon := monitor.New(monitor.Config{
		RefreshInterval: refresh,
	}, a.store, w, a.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mon.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if closeErr := mon.Close(); closeErr != nil {
			a.logger.Error("failed to close monitor", "error", closeErr)
		}
		if closeErr := w.Close(); closeErr != nil {
			a.logger.Error("failed to close watcher", "error", closeErr)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	toggleChan := make(chan os.Signal, 1)
	signal.Notify(toggleChan, syscall.SIGUSR1)
	defer signal.Stop(toggleChan)

	// Toggle requests are forwarded to the monitor's run loop rather
	// than applied here, so they serialize with refreshes and reloads.
	go func() {
		for range toggleChan {
			if toggleErr := mon.Toggle(""); toggleErr != nil {
				a.logger.Error("toggle failed", "error", toggleErr)
			}
		}
	}()

	fmt.Println("Watching sessions (Ctrl-C to quit, SIGUSR1 to toggle)...")

	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopping...")
			return nil

		case update, ok := <-mon.Updates():
			if !ok {
				return nil
			}
			c.render(update)
		}
	}
}

// render draws one update.
func (c *watchCommand) render(u monitor.Update) {
	if !c.clearScreen {
		state := "idle"
		if u.Running {
			state = "running"
		}
		fmt.Printf("%s  %s  today=%s  total=%s  sessions=%d\n",
			u.Timestamp.Format("15:04:05"),
			state,
			clock.FormatDuration(u.TodaySeconds),
			clock.FormatDuration(u.TotalSeconds),
			u.SessionCount)
		return
	}

	// ANSI clear screen and home.
	fmt.Print("\033[2J\033[H")

	fmt.Printf("timeclock watch  %s\n\n", u.Timestamp.Format("2006-01-02 15:04:05"))

	if u.Running && u.Current != nil {
		fmt.Printf("State:    running since %s\n", u.Current.Start.Format("15:04:05"))
		if u.Current.Note != "" {
			fmt.Printf("Note:     %s\n", u.Current.Note)
		}
		elapsed := clock.Duration(*u.Current, u.Timestamp)
		fmt.Printf("Elapsed:  %s\n", clock.FormatDuration(elapsed))
	} else {
		fmt.Printf("State:    not running\n")
	}

	fmt.Printf("Today:    %s\n", clock.FormatDuration(u.TodaySeconds))
	fmt.Printf("Total:    %s\n", clock.FormatDuration(u.TotalSeconds))
	fmt.Printf("Sessions: %d\n", u.SessionCount)

	fmt.Printf("\nCtrl-C to quit; SIGUSR1 toggles the session.\n")
}
