// Package service holds the business rules for Student records: who
// assigns ids, when a record must already exist, and what an update
// replaces.
//
// StudentService sits between the HTTP handlers and the storage backend.
// It keeps no state besides its storage reference, so one instance is
// safe to share between all requests. Failures from storage are returned
// unchanged: the service does not retry, log, or compensate.
package service

import (
	"context"

	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"
)

// StudentService implements the create, read, update and delete rules.
type StudentService struct {
	store storage.Storage
}

// NewStudentService returns a StudentService backed by store.
func NewStudentService(store storage.Storage) *StudentService {
	return &StudentService{store: store}
}

// GetAllStudents returns every student in store order.
func (s *StudentService) GetAllStudents(ctx context.Context) ([]types.Student, error) {
	return s.store.FindAll(ctx)
}

// GetStudentByID returns the student at id, or a *storage.NotFoundError.
func (s *StudentService) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	student, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return types.Student{}, err
	}
	if !ok {
		return types.Student{}, storage.NotFound(id)
	}
	return student, nil
}

// CreateStudent persists draft under a fresh id. Any id on draft is
// discarded; only the store assigns ids.
func (s *StudentService) CreateStudent(ctx context.Context, draft types.Student) (types.Student, error) {
	draft.ID = 0
	return s.store.InsertNew(ctx, draft)
}

// UpdateStudent replaces every mutable field of the student at id with
// the fields of draft. This is a full replace: zero fields in draft
// overwrite stored values. The result always carries id, whatever id
// draft held.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, draft types.Student) (types.Student, error) {
	if _, err := s.GetStudentByID(ctx, id); err != nil {
		return types.Student{}, err
	}

	draft.ID = id
	return s.store.ReplaceExisting(ctx, id, draft)
}

// DeleteStudent removes the student at id. A missing id is reported by
// the store itself.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	return s.store.DeleteByID(ctx, id)
}
