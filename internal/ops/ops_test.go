package ops

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nibzard/taskman-go/internal/storage"
	"github.com/nibzard/taskman-go/internal/task"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "tasks.json"))
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}
	return New(store, nil)
}

func TestCreateTask(t *testing.T) {
	svc := newTestService(t)
	due := time.Now().Add(48 * time.Hour)

	created, err := svc.CreateTask(CreateParams{
		Title:       "Buy groceries",
		Description: "milk, eggs",
		Priority:    task.PriorityHigh,
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}

	// Persisted and retrievable.
	got, err := svc.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Buy groceries" || got.Priority != task.PriorityHigh {
		t.Errorf("persisted task: got %q/%s", got.Title, got.Priority)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService(t)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name   string
		params CreateParams
	}{
		{name: "empty title", params: CreateParams{Title: "   "}},
		{name: "past due date", params: CreateParams{Title: "late", DueDate: &past}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(tt.params)
			var ve *task.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	// Nothing was persisted.
	tasks, err := svc.ListTasks("", "", "")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("store should be empty, got %d tasks", len(tasks))
	}
}

func TestCompleteIncompleteFlow(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.CreateTask(CreateParams{Title: "flip me"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	completed, err := svc.UpdateTaskStatus(created.ID, task.StatusCompleted)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != task.StatusCompleted || completed.CompletedAt == nil {
		t.Errorf("after complete: %s, %v", completed.Status, completed.CompletedAt)
	}

	reactivated, err := svc.UpdateTaskStatus(created.ID, task.StatusActive)
	if err != nil {
		t.Fatalf("incomplete failed: %v", err)
	}
	if reactivated.Status != task.StatusActive {
		t.Errorf("after incomplete: got %s", reactivated.Status)
	}
	if reactivated.CompletedAt != nil {
		t.Error("CompletedAt should be nil after incomplete")
	}

	// Persisted state agrees.
	got, err := svc.GetTask(created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Status != task.StatusActive || got.CompletedAt != nil {
		t.Errorf("persisted: %s, %v", got.Status, got.CompletedAt)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdateTaskStatus("missing", task.StatusCompleted)
	if !storage.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.CreateTask(CreateParams{Title: "short lived"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := svc.DeleteTask(created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := svc.GetTask(created.ID); !storage.IsNotFound(err) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
	if err := svc.DeleteTask(created.ID); !storage.IsNotFound(err) {
		t.Fatalf("expected NotFoundError on double delete, got %v", err)
	}
}

func TestClearCompleted(t *testing.T) {
	svc := newTestService(t)

	var completedIDs []string
	for _, title := range []string{"done 1", "done 2", "done 3"} {
		created, err := svc.CreateTask(CreateParams{Title: title})
		if err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
		completedIDs = append(completedIDs, created.ID)
	}
	for _, title := range []string{"active 1", "active 2"} {
		if _, err := svc.CreateTask(CreateParams{Title: title}); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}
	for _, id := range completedIDs {
		if _, err := svc.UpdateTaskStatus(id, task.StatusCompleted); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
	}

	count, err := svc.ClearCompleted()
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if count != 3 {
		t.Errorf("cleared count: got %d, want 3", count)
	}

	remaining, err := svc.ListTasks("", "", "")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining: got %d, want 2", len(remaining))
	}
	for _, tk := range remaining {
		if tk.Status != task.StatusActive {
			t.Errorf("remaining task %s has status %s", tk.ID, tk.Status)
		}
	}

	// Second clear is a no-op reporting zero.
	count, err = svc.ClearCompleted()
	if err != nil {
		t.Fatalf("second ClearCompleted failed: %v", err)
	}
	if count != 0 {
		t.Errorf("second clear: got %d, want 0", count)
	}
}

func TestListTasksFilterAndSort(t *testing.T) {
	svc := newTestService(t)

	dueSoon := time.Now().Add(24 * time.Hour)
	dueLater := time.Now().Add(240 * time.Hour)
	if _, err := svc.CreateTask(CreateParams{Title: "later", Priority: task.PriorityLow, DueDate: &dueLater}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := svc.CreateTask(CreateParams{Title: "soon", Priority: task.PriorityHigh, DueDate: &dueSoon}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := svc.CreateTask(CreateParams{Title: "undated", Priority: task.PriorityMedium}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	byDue, err := svc.ListTasks("", "", "due_date")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(byDue) != 3 || byDue[0].Title != "soon" || byDue[1].Title != "later" || byDue[2].Title != "undated" {
		t.Errorf("due_date order: got %v", titles(byDue))
	}

	highOnly, err := svc.ListTasks("", "high", "")
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(highOnly) != 1 || highOnly[0].Title != "soon" {
		t.Errorf("priority filter: got %v", titles(highOnly))
	}
}

func titles(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, tk := range tasks {
		out[i] = tk.Title
	}
	return out
}
