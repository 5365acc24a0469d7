// Package task defines the task entity, its field validation rules,
// and the record form used for JSON persistence.
package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length limits enforced by Validate.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Priority represents a task priority level.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort rank for p: high sorts before medium before low.
// Unknown priorities rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// ParsePriority converts a string to a Priority. Unknown values are an error.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q, must be one of: high, medium, low", s)
	}
	return p, nil
}

// Status represents a task status.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// ParseStatus converts a string to a Status. Unknown values are an error.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q, must be one of: active, completed", s)
	}
	return st, nil
}

// ErrInvalidPriority is returned by New when the priority option carries
// an unknown value.
var ErrInvalidPriority = fmt.Errorf("invalid priority")

// ValidationError reports a business-rule violation on a task field.
type ValidationError struct {
	Field string // field that failed validation
	Err   error  // underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Task is the unit of persisted state.
//
// The completed_at invariant holds after any MarkComplete/MarkIncomplete
// transition: CompletedAt is non-nil iff Status is completed. Construction
// from stored records is intentionally permissive and does not enforce it.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Status      Status
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Option configures a task at construction time.
type Option func(*Task)

// WithDescription sets the task description.
func WithDescription(d string) Option {
	return func(t *Task) { t.Description = d }
}

// WithPriority sets the task priority.
func WithPriority(p Priority) Option {
	return func(t *Task) { t.Priority = p }
}

// WithDueDate sets the task due date.
func WithDueDate(d time.Time) Option {
	return func(t *Task) { t.DueDate = &d }
}

// WithID sets an explicit task ID instead of generating one.
func WithID(id string) Option {
	return func(t *Task) { t.ID = id }
}

// WithStatus sets the task status.
func WithStatus(s Status) Option {
	return func(t *Task) { t.Status = s }
}

// WithCreatedAt sets an explicit creation timestamp.
func WithCreatedAt(ts time.Time) Option {
	return func(t *Task) { t.CreatedAt = ts }
}

// WithCompletedAt sets an explicit completion timestamp.
func WithCompletedAt(ts time.Time) Option {
	return func(t *Task) { t.CompletedAt = &ts }
}

// New constructs a task. The title is trimmed of surrounding whitespace;
// ID and CreatedAt are generated when not supplied via options. New only
// rejects structurally invalid input (an unknown priority); business rules
// such as title length are checked separately by Validate.
func New(title string, opts ...Option) (*Task, error) {
	t := &Task{
		Title:    strings.TrimSpace(title),
		Priority: PriorityMedium,
		Status:   StatusActive,
	}
	for _, opt := range opts {
		opt(t)
	}

	if !t.Priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return t, nil
}

// Validate checks the task against business rules: non-empty title within
// MaxTitleLen, description within MaxDescriptionLen, and a due date not in
// the past relative to the current wall clock. It is invoked on demand,
// typically once before a new task is persisted.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Err: fmt.Errorf("cannot be empty")}
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLen {
		return &ValidationError{Field: "title", Err: fmt.Errorf("cannot exceed %d characters", MaxTitleLen)}
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Err: fmt.Errorf("cannot exceed %d characters", MaxDescriptionLen)}
	}
	if t.DueDate != nil && t.DueDate.Before(time.Now()) {
		return &ValidationError{Field: "due_date", Err: fmt.Errorf("cannot be in the past")}
	}
	return nil
}

// MarkComplete sets the status to completed and records the completion time.
// Idempotent: repeated calls refresh the timestamp.
func (t *Task) MarkComplete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// MarkIncomplete sets the status back to active and clears the completion
// time. Idempotent.
func (t *Task) MarkIncomplete() {
	t.Status = StatusActive
	t.CompletedAt = nil
}

// Equal reports task identity: two tasks are equal iff their IDs match.
func (t *Task) Equal(other *Task) bool {
	if other == nil {
		return false
	}
	return t.ID == other.ID
}

// ParseDueDate parses a YYYY-MM-DD due date from CLI input.
func ParseDueDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
