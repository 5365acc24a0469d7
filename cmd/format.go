package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/taskman-go/internal/storage"
	"github.com/nibzard/taskman-go/internal/task"
)

// printDomainError renders a handled error for the user. Domain errors are
// printed, not propagated: the process still exits 0, matching the behavior
// of every command handler.
func printDomainError(err error) {
	var ve *task.ValidationError
	var nf *storage.NotFoundError
	var se *storage.Error
	switch {
	case errors.As(err, &ve):
		fmt.Fprintf(os.Stdout, "Error: %s\n", ve)
	case errors.As(err, &nf):
		fmt.Fprintf(os.Stdout, "Error: Task not found: %s\n", nf.ID)
	case errors.As(err, &se):
		fmt.Fprintf(os.Stdout, "Storage error: %s\n", se.Err)
	default:
		fmt.Fprintf(os.Stdout, "Error: %s\n", err)
	}
}

// formatTask renders a single task as an indented field list.
func formatTask(t *task.Task) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("  ID: %s", t.ID))
	lines = append(lines, fmt.Sprintf("  Title: %s", t.Title))
	if t.Description != "" {
		lines = append(lines, fmt.Sprintf("  Description: %s", t.Description))
	}
	lines = append(lines, fmt.Sprintf("  Priority: %s", t.Priority))
	lines = append(lines, fmt.Sprintf("  Status: %s", t.Status))
	if t.DueDate != nil {
		lines = append(lines, fmt.Sprintf("  Due Date: %s", t.DueDate.Format("2006-01-02")))
	}
	lines = append(lines, fmt.Sprintf("  Created: %s", t.CreatedAt.Format("2006-01-02 15:04:05")))
	if t.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("  Completed: %s", t.CompletedAt.Format("2006-01-02 15:04:05")))
	}
	return strings.Join(lines, "\n")
}

// Column widths for the list table. The ID column fits a full UUID.
const (
	idWidth       = 36
	titleWidth    = 30
	priorityWidth = 8
	statusWidth   = 10
	dueDateWidth  = 12
)

// formatTaskList renders tasks as a fixed-width table.
func formatTaskList(tasks []*task.Task) string {
	header := fmt.Sprintf("%-*s | %-*s | %-*s | %-*s | %-*s",
		idWidth, "ID",
		titleWidth, "Title",
		priorityWidth, "Priority",
		statusWidth, "Status",
		dueDateWidth, "Due Date")

	lines := []string{header, strings.Repeat("-", len(header))}
	for _, t := range tasks {
		title := t.Title
		if r := []rune(title); len(r) > titleWidth {
			title = string(r[:titleWidth])
		}
		dueDate := "N/A"
		if t.DueDate != nil {
			dueDate = t.DueDate.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("%-*s | %-*s | %-*s | %-*s | %-*s",
			idWidth, t.ID,
			titleWidth, title,
			priorityWidth, t.Priority,
			statusWidth, t.Status,
			dueDateWidth, dueDate))
	}
	return strings.Join(lines, "\n")
}
