package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/taskdeck/internal/task"
)

// splitLeadingArgs separates leading positional arguments from the first
// flag token onward. Commands accept their documented positional-first
// order ("add <name> -d ...") as well as flags-first, since stdlib flag
// parsing stops at the first non-flag argument.
func splitLeadingArgs(args []string) (positionals, flags []string) {
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

// addCommand creates a new task.
func addCommand(ctx context.Context, a *app, args []string) error {
	positionals, flagArgs := splitLeadingArgs(args)

	fs := flag.NewFlagSet("taskdeck add", flag.ContinueOnError)
	description := fs.String("d", "", "Task description")
	remindAt := fs.String("remind", "", "Reminder time")

	if err := fs.Parse(flagArgs); err != nil {
		return err
	}

	name := strings.TrimSpace(strings.Join(append(positionals, fs.Args()...), " "))
	if name == "" {
		return fmt.Errorf("add requires a task name")
	}

	var reminderTime *time.Time
	if *remindAt != "" {
		at, err := parseWhen(*remindAt, time.Now())
		if err != nil {
			return fmt.Errorf("parsing reminder time: %w", err)
		}
		reminderTime = &at
	}

	if reminderTime != nil {
		// Resolve permission before the store triggers scheduling.
		if _, err := a.scheduler.RequestAuthorization(ctx); err != nil {
			return fmt.Errorf("requesting notification permission: %w", err)
		}
	}

	t, err := a.store.Add(name, *description, reminderTime)
	if err != nil {
		a.logger.Error("saving task list", "err", err)
	}

	fmt.Printf("Added %q (%s)\n", t.Name, t.ID)
	return nil
}

// listCommand prints the ordered task collection.
func listCommand(a *app, args []string) error {
	fs := flag.NewFlagSet("taskdeck list", flag.ContinueOnError)
	onlyDone := fs.Bool("done", false, "Show only completed tasks")
	onlyOpen := fs.Bool("open", false, "Show only open tasks")

	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks := a.store.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No tasks. Add one with: taskdeck add <name>")
		return nil
	}

	for i, t := range tasks {
		if *onlyDone && !t.IsCompleted {
			continue
		}
		if *onlyOpen && t.IsCompleted {
			continue
		}

		check := " "
		if t.IsCompleted {
			check = "x"
		}
		line := fmt.Sprintf("%3d [%s] %-30s %3.0f%%", i, check, t.Name, t.Progress*100)
		if t.Reminder != nil {
			line += "  ⏰ " + t.Reminder.Local().Format("2006-01-02 15:04")
		}
		fmt.Println(line)
		if t.Description != "" {
			fmt.Printf("        %s\n", t.Description)
		}
	}
	return nil
}

// doneCommand toggles completion for the task at the given index.
func doneCommand(a *app, args []string, completed bool) error {
	idx, err := parseIndex(args)
	if err != nil {
		return err
	}

	tasks := a.store.Tasks()
	if idx < 0 || idx >= len(tasks) {
		return fmt.Errorf("no task at index %d", idx)
	}

	if err := a.store.Update(tasks[idx].ID, func(t *task.Task) {
		t.SetCompleted(completed)
	}); err != nil {
		a.logger.Error("saving task list", "err", err)
	}
	return nil
}

// editCommand changes name, description, or progress of a task.
func editCommand(a *app, args []string) error {
	positionals, flagArgs := splitLeadingArgs(args)

	fs := flag.NewFlagSet("taskdeck edit", flag.ContinueOnError)
	name := fs.String("name", "", "New task name")
	description := fs.String("d", "", "New task description")
	progress := fs.Float64("progress", -1, "Progress (0.0 to 1.0 by convention)")

	if err := fs.Parse(flagArgs); err != nil {
		return err
	}

	// Track which flags were given so "-d \"\"" clears the description
	// instead of being ignored.
	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	idx, err := parseIndex(append(positionals, fs.Args()...))
	if err != nil {
		return err
	}
	tasks := a.store.Tasks()
	if idx < 0 || idx >= len(tasks) {
		return fmt.Errorf("no task at index %d", idx)
	}

	// Progress is stored as given; only the completion toggle clamps it.
	if err := a.store.Update(tasks[idx].ID, func(t *task.Task) {
		if *name != "" {
			t.Name = *name
		}
		if given["d"] {
			t.Description = *description
		}
		if *progress >= 0 {
			t.Progress = *progress
		}
	}); err != nil {
		a.logger.Error("saving task list", "err", err)
	}
	return nil
}

// rmCommand deletes the task at the given index.
func rmCommand(a *app, args []string) error {
	idx, err := parseIndex(args)
	if err != nil {
		return err
	}

	tasks := a.store.Tasks()
	if idx < 0 || idx >= len(tasks) {
		return fmt.Errorf("no task at index %d", idx)
	}
	name := tasks[idx].Name

	if err := a.store.Delete(idx); err != nil {
		a.logger.Error("saving task list", "err", err)
	}
	fmt.Printf("Deleted %q\n", name)
	return nil
}

// remindCommand sets or clears a task's reminder.
func remindCommand(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: taskdeck remind <index> <time>|clear")
	}

	idx, err := parseIndex(args[:1])
	if err != nil {
		return err
	}
	tasks := a.store.Tasks()
	if idx < 0 || idx >= len(tasks) {
		return fmt.Errorf("no task at index %d", idx)
	}
	id := tasks[idx].ID

	when := strings.Join(args[1:], " ")
	if when == "clear" {
		if err := a.store.Update(id, func(t *task.Task) {
			t.SetReminder(nil)
		}); err != nil {
			a.logger.Error("saving task list", "err", err)
		}
		fmt.Println("Reminder cleared")
		return nil
	}

	at, err := parseWhen(when, time.Now())
	if err != nil {
		return fmt.Errorf("parsing reminder time: %w", err)
	}

	if _, err := a.scheduler.RequestAuthorization(ctx); err != nil {
		return fmt.Errorf("requesting notification permission: %w", err)
	}

	if err := a.store.Update(id, func(t *task.Task) {
		t.SetReminder(&at)
	}); err != nil {
		a.logger.Error("saving task list", "err", err)
	}
	fmt.Printf("Reminder set for %s\n", at.Local().Format("2006-01-02 15:04"))
	return nil
}

// parseIndex reads a single positional task index.
func parseIndex(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected a task index, got %v", args)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task index %q", args[0])
	}
	return idx, nil
}

// whenFormats are the accepted absolute reminder time layouts.
var whenFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseWhen parses a reminder time. Bare clock times ("15:04") resolve to
// today, or tomorrow if already past.
func parseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range whenFormats {
		if at, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return at, nil
		}
	}

	if clock, err := time.ParseInLocation("15:04", s, time.Local); err == nil {
		at := time.Date(now.Year(), now.Month(), now.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.Local)
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		return at, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
