package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nibzard/taskman-go/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func mustTask(t *testing.T, id, title string, opts ...task.Option) *task.Task {
	t.Helper()
	opts = append([]task.Option{task.WithID(id)}, opts...)
	tk, err := task.New(title, opts...)
	if err != nil {
		t.Fatalf("task.New failed: %v", err)
	}
	return tk
}

func TestNewInitializesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "tasks.json")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected task file to exist: %v", err)
	}
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("tasks: got %d, want 0", len(tasks))
	}
}

func TestNewKeepsExistingFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(mustTask(t, "a", "keep me")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Re-opening the same path must not clobber the content.
	s2, err := New(s.Path())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tasks, err := s2.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("tasks: got %v", tasks)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	due := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)

	in := []*task.Task{
		mustTask(t, "t1", "first", task.WithPriority(task.PriorityHigh), task.WithDueDate(due)),
		mustTask(t, "t2", "second", task.WithDescription("with description")),
	}
	in[1].MarkComplete()

	if err := s.Save(in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("tasks: got %d, want 2", len(out))
	}
	if out[0].ID != "t1" || out[1].ID != "t2" {
		t.Errorf("order: got %s, %s", out[0].ID, out[1].ID)
	}
	if out[0].Priority != task.PriorityHigh {
		t.Errorf("priority: got %s", out[0].Priority)
	}
	if out[0].DueDate == nil || !out[0].DueDate.Equal(due) {
		t.Errorf("due date: got %v", out[0].DueDate)
	}
	if out[1].Status != task.StatusCompleted || out[1].CompletedAt == nil {
		t.Errorf("completed: got %s, %v", out[1].Status, out[1].CompletedAt)
	}
}

func TestLoadCorruptJSON(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupting file: %v", err)
	}

	_, err := s.Load()
	if !IsKind(err, KindCorruptFormat) {
		t.Fatalf("expected corrupt_format error, got %v", err)
	}

	// The store stays usable for a fresh save.
	if err := s.Save([]*task.Task{mustTask(t, "fresh", "recovered")}); err != nil {
		t.Fatalf("Save after corruption failed: %v", err)
	}
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load after recovery failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "fresh" {
		t.Errorf("recovered tasks: got %v", tasks)
	}
}

func TestLoadSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing tasks key", content: `{"items": []}`},
		{name: "tasks not an array", content: `{"tasks": {}}`},
		{name: "record missing id", content: `{"tasks": [{"title": "no id"}]}`},
		{name: "record missing title", content: `{"tasks": [{"id": "1"}]}`},
		{name: "unknown priority", content: `{"tasks": [{"id": "1", "title": "t", "priority": "urgent"}]}`},
		{name: "unknown status", content: `{"tasks": [{"id": "1", "title": "t", "status": "paused"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing file: %v", err)
			}
			_, err := s.Load()
			if !IsKind(err, KindSchema) {
				t.Fatalf("expected schema error, got %v", err)
			}
		})
	}
}

func TestAddDuplicateID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(mustTask(t, "dup", "original")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	err := s.Add(mustTask(t, "dup", "imposter"))
	if !IsKind(err, KindDuplicateID) {
		t.Fatalf("expected duplicate_id error, got %v", err)
	}

	// Store content unchanged.
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "original" {
		t.Errorf("store changed after failed add: %v", tasks)
	}
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(mustTask(t, "findme", "target")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := s.GetByID("findme")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "target" {
		t.Errorf("Title: got %q", got.Title)
	}

	_, err = s.GetByID("missing")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	if err := s.Add(mustTask(t, "a", "first")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(mustTask(t, "b", "second")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("tasks after remove: got %v", tasks)
	}

	if err := s.Remove("a"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	tk := mustTask(t, "u", "before")
	if err := s.Add(tk); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	tk.MarkComplete()
	if err := s.Update(tk); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := s.GetByID("u")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != task.StatusCompleted {
		t.Errorf("Status: got %s", got.Status)
	}

	if err := s.Update(mustTask(t, "ghost", "nope")); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBackupBeforeOverwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save([]*task.Task{mustTask(t, "one", "state one")}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}

	if err := s.Save([]*task.Task{mustTask(t, "two", "state two")}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	backup, err := os.ReadFile(s.BackupPath())
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}
	if !bytes.Equal(backup, before) {
		t.Error("backup does not match pre-save target content")
	}
}

func TestSaveFailureLeavesTargetIntact(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	s := newTestStore(t)
	if err := s.Save([]*task.Task{mustTask(t, "keep", "survivor")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}

	// Make the directory read-only so the temp-file write fails before the
	// rename ever happens.
	dir := filepath.Dir(s.Path())
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(dir, 0755)

	err = s.Save([]*task.Task{mustTask(t, "lost", "never lands")})
	if !IsKind(err, KindIO) {
		t.Fatalf("expected io error, got %v", err)
	}

	if err := os.Chmod(dir, 0755); err != nil {
		t.Fatalf("chmod restore: %v", err)
	}
	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("reading target after failed save: %v", err)
	}
	if !bytes.Equal(after, before) {
		t.Error("target changed after failed save")
	}
	if _, err := os.Stat(s.Path() + tmpSuffix); !os.IsNotExist(err) {
		t.Error("temp file left behind after failed save")
	}
}

func TestNoBackupForEmptyTarget(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), nil, 0644); err != nil {
		t.Fatalf("truncating file: %v", err)
	}

	if err := s.Save([]*task.Task{mustTask(t, "x", "first real save")}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(s.BackupPath()); !os.IsNotExist(err) {
		t.Error("expected no backup for an empty target")
	}
}
