package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/nibzard/taskdeck/internal/ui"
)

// tuiCommand launches the terminal UI. Reminder changes made in the TUI
// are scheduled live, so permission is resolved up front.
func tuiCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskdeck tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if _, err := a.scheduler.RequestAuthorization(ctx); err != nil {
		return fmt.Errorf("requesting notification permission: %w", err)
	}

	return ui.RunTUI(ctx, a.store)
}
