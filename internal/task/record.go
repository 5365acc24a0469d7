package task

import (
	"fmt"
	"time"
)

// Record is the serialized form of a task as stored in the JSON file.
// Optional fields are pointers so absence round-trips as JSON null, enums
// persist as lowercase strings, and timestamps as RFC 3339 text.
type Record struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ToRecord converts the task to its persisted record form.
func (t *Task) ToRecord() Record {
	r := Record{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
	if t.Description != "" {
		d := t.Description
		r.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		r.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		r.CompletedAt = &c
	}
	return r
}

// FromRecord reconstructs a task from its persisted record form. ID and
// title are required; missing optional fields take their defaults (medium
// priority, active status). Unknown enum strings are rejected.
func FromRecord(r Record) (*Task, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("task record missing required field %q", "id")
	}
	if r.Title == "" {
		return nil, fmt.Errorf("task record missing required field %q", "title")
	}

	priority := PriorityMedium
	if r.Priority != "" {
		p, err := ParsePriority(r.Priority)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		priority = p
	}

	status := StatusActive
	if r.Status != "" {
		s, err := ParseStatus(r.Status)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		status = s
	}

	t := &Task{
		ID:        r.ID,
		Title:     r.Title,
		Priority:  priority,
		Status:    status,
		CreatedAt: r.CreatedAt,
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.DueDate != nil {
		d := *r.DueDate
		t.DueDate = &d
	}
	if r.CompletedAt != nil {
		c := *r.CompletedAt
		t.CompletedAt = &c
	}
	return t, nil
}
