// Package cmd implements the CLI command structure for taskdeck.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/config"
	"github.com/nibzard/taskdeck/internal/kv"
	"github.com/nibzard/taskdeck/internal/logging"
	"github.com/nibzard/taskdeck/internal/reminder"
	"github.com/nibzard/taskdeck/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app bundles the wired-up components commands operate on.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	store     *task.Store
	scheduler *reminder.Scheduler
}

// Run executes the taskdeck CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskdeck", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; default to listing tasks.
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.scheduler.Stop()

	switch subcommand {
	case "add":
		return addCommand(ctx, a, remainingArgs)
	case "list", "ls":
		return listCommand(a, remainingArgs)
	case "done":
		return doneCommand(a, remainingArgs, true)
	case "undone":
		return doneCommand(a, remainingArgs, false)
	case "edit":
		return editCommand(a, remainingArgs)
	case "rm":
		return rmCommand(a, remainingArgs)
	case "remind":
		return remindCommand(ctx, a, remainingArgs)
	case "watch":
		return watchCommand(ctx, a, remainingArgs)
	case "tui":
		return tuiCommand(ctx, a, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// buildApp wires storage, scheduler, and store from the config and loads
// the persisted collection. A corrupt blob is reported and the app starts
// with zero tasks.
func buildApp(cfg *config.Config) (*app, error) {
	logger := logging.FromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)

	db, err := kv.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening data dir: %w", err)
	}

	var notifier reminder.Notifier = reminder.NewDesktop()
	if !cfg.Notifications {
		// Behaves like a denied permission: scheduling becomes a no-op.
		denied := reminder.NewMemory()
		denied.Granted = false
		notifier = denied
	}
	scheduler := reminder.NewScheduler(notifier, reminder.WithLogger(logger))

	store := task.NewStore(db,
		task.WithScheduler(scheduler),
		task.WithLogger(logger),
	)
	if err := store.Load(); err != nil {
		logger.Warn("starting with empty task list", "err", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		scheduler: scheduler,
	}, nil
}

func versionCommand() error {
	fmt.Printf("taskdeck %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskdeck - A personal task tracker with reminders")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskdeck [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <name>            Add a task (-d description, -remind time)")
	fmt.Fprintln(w, "  list                  List tasks (default command)")
	fmt.Fprintln(w, "  done <index>          Mark a task completed")
	fmt.Fprintln(w, "  undone <index>        Mark a task not completed")
	fmt.Fprintln(w, "  edit <index>          Edit a task (-name, -d, -progress)")
	fmt.Fprintln(w, "  rm <index>            Delete a task")
	fmt.Fprintln(w, "  remind <index> <time> Set a reminder ('clear' to remove)")
	fmt.Fprintln(w, "  watch                 Wait for reminders and notify")
	fmt.Fprintln(w, "  tui                   Launch terminal UI")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reminder times accept RFC3339, '2006-01-02 15:04', '2006-01-02', or '15:04'.")
}
