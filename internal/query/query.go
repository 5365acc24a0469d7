// Package query filters and sorts in-memory task lists. All functions are
// pure: stored state is never touched and input slices are not reordered.
package query

import (
	"sort"

	"github.com/nibzard/taskman-go/internal/task"
)

// Sort keys accepted by Sort.
const (
	SortByCreatedAt = "created_at"
	SortByDueDate   = "due_date"
	SortByPriority  = "priority"
)

// Options selects which tasks Filter keeps. Empty fields match everything;
// values that are not a known status or priority are ignored rather than
// rejected, so an unrecognized filter simply does not narrow the list.
type Options struct {
	Status   string
	Priority string
}

// Filter returns the tasks matching opts. Status and priority filters are
// conjunctive when both are set.
func Filter(tasks []*task.Task, opts Options) []*task.Task {
	status, statusOK := parseStatus(opts.Status)
	priority, priorityOK := parsePriority(opts.Priority)

	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if statusOK && t.Status != status {
			continue
		}
		if priorityOK && t.Priority != priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort returns a copy of tasks ordered by the given key:
//
//   - created_at: descending, newest first
//   - due_date: ascending; tasks without a due date sort after all tasks
//     that have one, keeping their original relative order
//   - priority: high before medium before low, stable among equals
//
// An unrecognized key returns the list in load order.
func Sort(tasks []*task.Task, key string) []*task.Task {
	out := make([]*task.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortByCreatedAt:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	case SortByDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	}
	return out
}

func parseStatus(s string) (task.Status, bool) {
	if s == "" {
		return "", false
	}
	st, err := task.ParseStatus(s)
	if err != nil {
		return "", false
	}
	return st, true
}

func parsePriority(s string) (task.Priority, bool) {
	if s == "" {
		return "", false
	}
	p, err := task.ParsePriority(s)
	if err != nil {
		return "", false
	}
	return p, true
}
