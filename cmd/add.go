package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/nibzard/taskman-go/internal/ops"
	"github.com/nibzard/taskman-go/internal/task"
)

// addCommand creates a new task from command flags.
func addCommand(svc *ops.Service, args []string) error {
	fs := flag.NewFlagSet("taskman add", flag.ContinueOnError)
	title := fs.String("title", "", "Task title (required)")
	description := fs.String("description", "", "Task description")
	priority := fs.String("priority", "medium", "Task priority (high|medium|low)")
	dueDate := fs.String("due-date", "", "Due date in YYYY-MM-DD format")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *title == "" {
		fs.Usage()
		return fmt.Errorf("-title is required")
	}

	p, err := task.ParsePriority(*priority)
	if err != nil {
		fs.Usage()
		return err
	}

	var due *time.Time
	if *dueDate != "" {
		d, err := task.ParseDueDate(*dueDate)
		if err != nil {
			fs.Usage()
			return err
		}
		due = &d
	}

	t, err := svc.CreateTask(ops.CreateParams{
		Title:       *title,
		Description: *description,
		Priority:    p,
		DueDate:     due,
	})
	if err != nil {
		printDomainError(err)
		return nil
	}

	fmt.Fprintln(os.Stdout, "✓ Task created successfully!")
	fmt.Fprintln(os.Stdout, formatTask(t))
	return nil
}
