package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/taskman-go/internal/ops"
	"github.com/nibzard/taskman-go/internal/query"
)

// listCommand prints tasks, optionally filtered and sorted.
func listCommand(svc *ops.Service, args []string) error {
	fs := flag.NewFlagSet("taskman list", flag.ContinueOnError)
	status := fs.String("status", "", "Filter by status (active|completed)")
	priority := fs.String("priority", "", "Filter by priority (high|medium|low)")
	sortBy := fs.String("sort-by", query.SortByCreatedAt, "Sort by field (created_at|due_date|priority)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validateChoice(fs, "status", *status, "active", "completed"); err != nil {
		return err
	}
	if err := validateChoice(fs, "priority", *priority, "high", "medium", "low"); err != nil {
		return err
	}
	if err := validateChoice(fs, "sort-by", *sortBy, query.SortByCreatedAt, query.SortByDueDate, query.SortByPriority); err != nil {
		return err
	}

	tasks, err := svc.ListTasks(*status, *priority, *sortBy)
	if err != nil {
		printDomainError(err)
		return nil
	}

	if len(tasks) == 0 {
		fmt.Fprintln(os.Stdout, "No tasks found.")
		return nil
	}
	fmt.Fprintln(os.Stdout, formatTaskList(tasks))
	return nil
}

// validateChoice rejects flag values outside the allowed set. Empty values
// pass, meaning the flag was not given.
func validateChoice(fs *flag.FlagSet, name, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	fs.Usage()
	return fmt.Errorf("invalid value %q for -%s", value, name)
}
