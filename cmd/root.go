// Package cmd implements the CLI command structure for taskman.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/nibzard/taskman-go/internal/config"
	"github.com/nibzard/taskman-go/internal/logging"
	"github.com/nibzard/taskman-go/internal/ops"
	"github.com/nibzard/taskman-go/internal/storage"
	"github.com/nibzard/taskman-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskman CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
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

	subcommand := ""
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}
	if subcommand == "" {
		printUsage(fs, os.Stderr)
		return fmt.Errorf("no command given")
	}

	switch subcommand {
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: cfg.LogTimestamps,
	})

	store, err := storage.New(cfg.TasksFile)
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	svc := ops.New(store, logger)

	switch subcommand {
	case "add":
		return addCommand(svc, remainingArgs)
	case "list":
		return listCommand(svc, remainingArgs)
	case "complete":
		return statusCommand(svc, "complete", remainingArgs)
	case "incomplete":
		return statusCommand(svc, "incomplete", remainingArgs)
	case "delete":
		return deleteCommand(svc, remainingArgs)
	case "clear":
		return clearCommand(svc, remainingArgs)
	case "tui":
		return ui.Run(ctx, svc)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskman %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	return nil
}

// printUsage writes the top-level usage text.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `taskman - command-line task manager

Usage:
  taskman [global flags] <command> [command flags]

Commands:
  add         Add a new task
  list        List tasks with optional filters
  complete    Mark a task as complete
  incomplete  Mark a task as active
  delete      Delete a task
  clear       Remove all completed tasks
  tui         Browse tasks interactively
  version     Show version
  help        Show this help

Global flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Examples:
  taskman add -title "Buy milk" -priority high -due-date 2026-09-01
  taskman list -status active -sort-by due_date
  taskman complete 4f8c9a1e-...
`)
}
