// Package memory provides an in-process implementation of
// storage.Storage: a map from id to Student plus an id counter.
//
// It backs the "memory" storage driver and is the fake used by service
// and handler tests. Seed and InjectFault let a test pin the exact store
// contents and simulate storage faults without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"
)

// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	lastID   int64
	fault    error
}

// New returns an empty Store. The first inserted student gets id 1.
func New() *Store {
	return &Store{students: make(map[int64]types.Student)}
}

// Seed stores the given students under their own ids, replacing any
// record already there. Ids handed out later start above the highest
// id seen, so seeded ids are never reused.
func (s *Store) Seed(students ...types.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range students {
		s.students[st.ID] = st
		if st.ID > s.lastID {
			s.lastID = st.ID
		}
	}
}

// InjectFault makes every subsequent call fail with err. Pass nil to
// restore normal behaviour.
func (s *Store) InjectFault(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = err
}

// Len returns the number of stored students.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

func (s *Store) FindAll(ctx context.Context) ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fault != nil {
		return nil, s.fault
	}

	students := make([]types.Student, 0, len(s.students))
	for _, st := range s.students {
		students = append(students, st)
	}
	sort.Slice(students, func(i, j int) bool {
		return students[i].ID < students[j].ID
	})

	return students, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fault != nil {
		return types.Student{}, false, s.fault
	}

	st, ok := s.students[id]
	return st, ok, nil
}

func (s *Store) InsertNew(ctx context.Context, st types.Student) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault != nil {
		return types.Student{}, s.fault
	}

	s.lastID++
	st.ID = s.lastID
	s.students[st.ID] = st

	return st, nil
}

func (s *Store) ReplaceExisting(ctx context.Context, id int64, st types.Student) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault != nil {
		return types.Student{}, s.fault
	}

	if _, ok := s.students[id]; !ok {
		return types.Student{}, storage.NotFound(id)
	}

	st.ID = id
	s.students[id] = st

	return st, nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault != nil {
		return s.fault
	}

	if _, ok := s.students[id]; !ok {
		return storage.NotFound(id)
	}
	delete(s.students, id)

	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
