// Package ops implements the task operations behind the CLI commands:
// create, get, list, status transitions, delete, and clearing completed
// tasks. Every operation goes through an explicitly injected store; there
// is no package-level state.
package ops

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman-go/internal/query"
	"github.com/nibzard/taskman-go/internal/storage"
	"github.com/nibzard/taskman-go/internal/task"
)

// Service executes task operations against a store.
type Service struct {
	store  *storage.Store
	logger *log.Logger
}

// New creates a Service. A nil logger disables operation logging.
func New(store *storage.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{store: store, logger: logger}
}

// CreateParams carries the caller-supplied fields for a new task.
type CreateParams struct {
	Title       string
	Description string
	Priority    task.Priority
	DueDate     *time.Time
}

// CreateTask builds a task from params, validates it, and persists it.
func (s *Service) CreateTask(p CreateParams) (*task.Task, error) {
	opts := []task.Option{task.WithDescription(p.Description)}
	if p.Priority != "" {
		opts = append(opts, task.WithPriority(p.Priority))
	}
	if p.DueDate != nil {
		opts = append(opts, task.WithDueDate(*p.DueDate))
	}

	t, err := task.New(p.Title, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Add(t); err != nil {
		return nil, err
	}
	s.logger.Debug("task created", "id", t.ID, "priority", t.Priority)
	return t, nil
}

// GetTask returns the task with the given ID.
func (s *Service) GetTask(id string) (*task.Task, error) {
	return s.store.GetByID(id)
}

// ListTasks returns tasks filtered by status and priority and ordered by
// sortBy. Empty filters match everything.
func (s *Service) ListTasks(status, priority, sortBy string) ([]*task.Task, error) {
	tasks, err := s.store.GetAll()
	if err != nil {
		return nil, err
	}
	tasks = query.Filter(tasks, query.Options{Status: status, Priority: priority})
	return query.Sort(tasks, sortBy), nil
}

// UpdateTaskStatus flips a task to the given status and persists it.
// Completing records the completion time; reactivating clears it.
func (s *Service) UpdateTaskStatus(id string, status task.Status) (*task.Task, error) {
	t, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}

	switch status {
	case task.StatusCompleted:
		t.MarkComplete()
	case task.StatusActive:
		t.MarkIncomplete()
	}

	if err := s.store.Update(t); err != nil {
		return nil, err
	}
	s.logger.Debug("task status updated", "id", t.ID, "status", t.Status)
	return t, nil
}

// DeleteTask removes the task with the given ID.
func (s *Service) DeleteTask(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.logger.Debug("task deleted", "id", id)
	return nil
}

// ClearCompleted removes every completed task in one write cycle and
// returns how many were removed. Zero completed tasks is not an error and
// causes no write.
func (s *Service) ClearCompleted() (int, error) {
	tasks, err := s.store.GetAll()
	if err != nil {
		return 0, err
	}

	kept := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != task.StatusCompleted {
			kept = append(kept, t)
		}
	}
	removed := len(tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.store.Save(kept); err != nil {
		return 0, err
	}
	s.logger.Debug("completed tasks cleared", "count", removed)
	return removed, nil
}
