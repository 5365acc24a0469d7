package cmd

import (
	"fmt"
	"os"

	"github.com/nibzard/taskman-go/internal/ops"
	"github.com/nibzard/taskman-go/internal/task"
)

// statusCommand marks a task complete or active again.
func statusCommand(svc *ops.Service, action string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskman %s <task_id>", action)
	}
	id := args[0]

	status := task.StatusCompleted
	label := "complete"
	if action == "incomplete" {
		status = task.StatusActive
		label = "active"
	}

	if _, err := svc.UpdateTaskStatus(id, status); err != nil {
		printDomainError(err)
		return nil
	}
	fmt.Fprintf(os.Stdout, "✓ Task marked as %s: %s\n", label, id)
	return nil
}

// deleteCommand removes a task by ID.
func deleteCommand(svc *ops.Service, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: taskman delete <task_id>")
	}
	id := args[0]

	if err := svc.DeleteTask(id); err != nil {
		printDomainError(err)
		return nil
	}
	fmt.Fprintf(os.Stdout, "✓ Task deleted successfully: %s\n", id)
	return nil
}

// clearCommand removes all completed tasks and reports the count.
func clearCommand(svc *ops.Service, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: taskman clear")
	}

	count, err := svc.ClearCompleted()
	if err != nil {
		printDomainError(err)
		return nil
	}
	if count == 0 {
		fmt.Fprintln(os.Stdout, "No completed tasks to clear.")
	} else {
		fmt.Fprintf(os.Stdout, "✓ Cleared %d completed task(s).\n", count)
	}
	return nil
}
