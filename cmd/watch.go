package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"
)

// watchCommand stays resident, schedules every future reminder, and fires
// desktop notifications until interrupted.
func watchCommand(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("taskdeck watch", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	granted, err := a.scheduler.RequestAuthorization(ctx)
	if err != nil {
		return fmt.Errorf("requesting notification permission: %w", err)
	}
	if !granted {
		return fmt.Errorf("notifications are not permitted; nothing to watch")
	}

	now := time.Now()
	scheduled := 0
	for _, t := range a.store.Tasks() {
		if t.Reminder == nil {
			continue
		}
		if t.Reminder.Before(now) {
			a.logger.Debug("skipping past reminder", "task", t.ID, "at", t.Reminder)
			continue
		}
		a.scheduler.Schedule(t.ID, t.Name, *t.Reminder)
		scheduled++
	}

	a.logger.Info("watching for reminders", "scheduled", scheduled)
	if scheduled == 0 {
		a.logger.Warn("no upcoming reminders; waiting anyway")
	}

	<-ctx.Done()
	a.logger.Info("watch stopped")
	return nil
}
