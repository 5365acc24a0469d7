package storage

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure.
type Kind string

const (
	// KindIO covers filesystem failures: permissions, missing files, disk full.
	KindIO Kind = "io"
	// KindCorruptFormat means the store file is not valid JSON.
	KindCorruptFormat Kind = "corrupt_format"
	// KindSchema means the store file parsed but violates the document schema.
	KindSchema Kind = "schema"
	// KindDuplicateID means an add collided with an existing task ID.
	KindDuplicateID Kind = "duplicate_id"
)

// Error wraps any failure of the storage layer with a classification.
// Callers never see raw OS-level error types.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage (%s): %s", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// errKind builds a classified storage error.
func errKind(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// IsKind reports whether err is a storage Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// NotFoundError reports that no task with the given ID exists in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// IsNotFound reports whether err is a task-not-found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
