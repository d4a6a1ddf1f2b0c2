package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched with errors.Is by callers that only care that a
// record was missing.
var ErrNotFound = errors.New("student not found")

// NotFoundError reports that no student exists at ID.
type NotFoundError struct {
	ID int64
}

// NotFound returns a *NotFoundError for id.
func NotFound(id int64) error {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no student found with id: %d", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) succeed for any *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err signals a missing student.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
