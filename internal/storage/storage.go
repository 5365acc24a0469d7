// Package storage persists the task collection to a single JSON file.
//
// Writes are crash-safe: the document is staged in a sibling temp file and
// atomically renamed onto the target, and the previous file content is
// copied to a .bak sibling before every overwrite. The target file is never
// observable in a partially written state.
//
// There is no cross-process locking. Two concurrent invocations can
// interleave a load in one process with a save in another and lose an
// update (last writer wins). That is an accepted limitation for a
// single-user tool, not something this layer guards against.
package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/taskman-go/internal/task"
)

const (
	tmpSuffix    = ".tmp"
	backupSuffix = ".bak"
	fileMode     = 0644
	dirMode      = 0755
)

// document is the top-level shape of the store file.
type document struct {
	Tasks []task.Record `json:"tasks"`
}

// Store owns one JSON task file and its .bak/.tmp siblings. Every read
// parses the file fresh; every mutation is a full read-modify-write cycle.
type Store struct {
	path   string
	schema *jsonschema.Schema
}

// New creates a store for the given file path. The parent directory is
// created if missing, and an empty document is written if the file does not
// exist yet. That initial write is plain, not atomic: there is no prior
// data to lose.
func New(path string) (*Store, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, errKind(KindSchema, "compile task file schema: %w", err)
	}
	s := &Store{path: path, schema: schema}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, errKind(KindIO, "create storage directory: %w", err)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		data, err := marshalDocument(document{Tasks: []task.Record{}})
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, data, fileMode); err != nil {
			return nil, errKind(KindIO, "initialize task file: %w", err)
		}
	} else if err != nil {
		return nil, errKind(KindIO, "stat task file: %w", err)
	}

	return s, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// BackupPath returns the path of the pre-write backup sibling.
func (s *Store) BackupPath() string {
	return s.path + backupSuffix
}

// Load reads and parses the full task file. The file is read fresh on every
// call. A file that is not valid JSON fails with KindCorruptFormat; a valid
// JSON document that violates the task-file schema (missing "tasks" key,
// unknown enum strings, missing id/title) fails with KindSchema. A single
// malformed record fails the whole load.
func (s *Store) Load() ([]*task.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errKind(KindIO, "read task file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errKind(KindCorruptFormat, "parse task file: %w", err)
	}
	if err := s.schema.Validate(raw); err != nil {
		return nil, errKind(KindSchema, "task file schema: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errKind(KindCorruptFormat, "decode task file: %w", err)
	}

	tasks := make([]*task.Task, 0, len(doc.Tasks))
	for i, r := range doc.Tasks {
		t, err := task.FromRecord(r)
		if err != nil {
			return nil, errKind(KindSchema, "tasks[%d]: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Save atomically replaces the task file with the given task list. When the
// target exists with content, it is first copied to the .bak sibling; a
// backup failure aborts the save. The new document is written to a .tmp
// sibling in full and renamed onto the target, so an interrupted save leaves
// the old content untouched and no partial document visible.
func (s *Store) Save(tasks []*task.Task) error {
	if err := s.backup(); err != nil {
		return err
	}

	doc := document{Tasks: make([]task.Record, 0, len(tasks))}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, t.ToRecord())
	}
	data, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	return s.atomicWrite(data)
}

// GetAll returns all tasks, freshly loaded.
func (s *Store) GetAll() ([]*task.Task, error) {
	return s.Load()
}

// GetByID returns the task with the given ID, or a NotFoundError.
func (s *Store) GetByID(id string) (*task.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

// Add appends a task and persists the result. Adding an ID that already
// exists fails with KindDuplicateID and leaves the store unchanged.
func (s *Store) Add(t *task.Task) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	for _, existing := range tasks {
		if existing.ID == t.ID {
			return errKind(KindDuplicateID, "task %q already exists", t.ID)
		}
	}
	return s.Save(append(tasks, t))
}

// Remove deletes the task with the given ID and persists the result.
func (s *Store) Remove(id string) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	kept := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return &NotFoundError{ID: id}
	}
	return s.Save(kept)
}

// Update replaces the stored task with the same ID and persists the result.
func (s *Store) Update(t *task.Task) error {
	tasks, err := s.Load()
	if err != nil {
		return err
	}
	found := false
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			found = true
			break
		}
	}
	if !found {
		return &NotFoundError{ID: t.ID}
	}
	return s.Save(tasks)
}

// backup copies the current file content to the .bak sibling, overwriting
// any prior backup. Missing or empty targets are skipped.
func (s *Store) backup() error {
	fi, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errKind(KindIO, "stat task file: %w", err)
	}
	if fi.Size() == 0 {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return errKind(KindIO, "read task file for backup: %w", err)
	}
	if err := os.WriteFile(s.BackupPath(), data, fileMode); err != nil {
		return errKind(KindIO, "write backup file: %w", err)
	}
	return nil
}

// atomicWrite stages data in a same-directory temp file and renames it onto
// the target. Rename is atomic on the same filesystem, so observers see
// either the old document or the new one, never a partial write. The temp
// file is removed if any step fails.
func (s *Store) atomicWrite(data []byte) error {
	tmp := s.path + tmpSuffix
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		os.Remove(tmp)
		return errKind(KindIO, "write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errKind(KindIO, "replace task file: %w", err)
	}
	return nil
}

// marshalDocument renders the document with 2-space indentation and a
// trailing newline.
func marshalDocument(doc document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errKind(KindIO, "marshal task file: %w", err)
	}
	return append(data, '\n'), nil
}
