package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/storage/memory"
	"github.com/aanand-mishra/students-service/internal/types"
)

// fixture holds a fresh store seeded with two students and a service
// over it. Every test builds its own.
type fixture struct {
	store   *memory.Store
	calls   *countingStore
	service *StudentService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.New()
	store.Seed(
		types.Student{
			ID:       1,
			Name:     "Anders",
			Password: "123",
			BornDate: types.NewDate(2008, time.May, 22),
			BornTime: types.NewTimeOfDay(8, 30, 45),
		},
		types.Student{
			ID:       2,
			Name:     "Lina",
			Password: "Hemmeligt",
			BornDate: types.NewDate(2012, time.July, 9),
			BornTime: types.NewTimeOfDay(15, 20, 30),
		},
	)

	calls := &countingStore{Storage: store, counts: map[string]int{}}
	return fixture{store: store, calls: calls, service: NewStudentService(calls)}
}

// countingStore records how often each storage method is called.
type countingStore struct {
	storage.Storage
	counts map[string]int
}

func (c *countingStore) FindAll(ctx context.Context) ([]types.Student, error) {
	c.counts["FindAll"]++
	return c.Storage.FindAll(ctx)
}

func (c *countingStore) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	c.counts["FindByID"]++
	return c.Storage.FindByID(ctx, id)
}

func (c *countingStore) InsertNew(ctx context.Context, s types.Student) (types.Student, error) {
	c.counts["InsertNew"]++
	return c.Storage.InsertNew(ctx, s)
}

func (c *countingStore) ReplaceExisting(ctx context.Context, id int64, s types.Student) (types.Student, error) {
	c.counts["ReplaceExisting"]++
	return c.Storage.ReplaceExisting(ctx, id, s)
}

func (c *countingStore) DeleteByID(ctx context.Context, id int64) error {
	c.counts["DeleteByID"]++
	return c.Storage.DeleteByID(ctx, id)
}

func hugo() types.Student {
	return types.Student{
		Name:     "Hugo",
		Password: "Secret",
		BornDate: types.NewDate(2000, time.January, 1),
		BornTime: types.NewTimeOfDay(0, 0, 1),
	}
}

func TestGetAllStudents(t *testing.T) {
	f := newFixture(t)

	students, err := f.service.GetAllStudents(context.Background())
	require.NoError(t, err)

	require.Len(t, students, 2)
	assert.Equal(t, "Anders", students[0].Name)
	assert.Equal(t, "Lina", students[1].Name)
}

func TestGetAllStudents_Empty(t *testing.T) {
	students, err := NewStudentService(memory.New()).GetAllStudents(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestGetStudentByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	student, err := f.service.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anders", student.Name)

	_, err = f.service.GetStudentByID(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	var nf *storage.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)
}

func TestCreateStudent(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.CreateStudent(context.Background(), hugo())
	require.NoError(t, err)

	assert.Equal(t, "Hugo", created.Name)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, 1, f.calls.counts["InsertNew"])
}

func TestCreateStudent_IgnoresDraftID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := hugo()
	draft.ID = 1
	created, err := f.service.CreateStudent(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	anders, err := f.service.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anders", anders.Name, "seeded record must be untouched")
}

func TestCreateStudent_DistinctIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := map[int64]bool{1: true, 2: true}
	for i := 0; i < 20; i++ {
		created, err := f.service.CreateStudent(ctx, hugo())
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, seen[created.ID], "id %d handed out twice", created.ID)
		seen[created.ID] = true
	}
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := hugo()
	created, err := f.service.CreateStudent(ctx, draft)
	require.NoError(t, err)

	got, err := f.service.GetStudentByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Name, got.Name)
	assert.Equal(t, draft.BornDate, got.BornDate)
	assert.Equal(t, draft.BornTime, got.BornTime)
}

func TestUpdateStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.service.UpdateStudent(ctx, 1, hugo())
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated.ID)
	assert.Equal(t, "Hugo", updated.Name)
	assert.Equal(t, "Secret", updated.Password)
	assert.Equal(t, types.NewDate(2000, time.January, 1), updated.BornDate)
	assert.Equal(t, types.NewTimeOfDay(0, 0, 1), updated.BornTime)

	stored, err := f.service.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateStudent_ForcesPathID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := hugo()
	draft.ID = 2
	updated, err := f.service.UpdateStudent(ctx, 1, draft)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)

	lina, err := f.service.GetStudentByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Lina", lina.Name, "record at draft id must be untouched")
}

func TestUpdateStudent_FullReplace(t *testing.T) {
	f := newFixture(t)

	updated, err := f.service.UpdateStudent(context.Background(), 1, types.Student{Name: "Only Name"})
	require.NoError(t, err)

	assert.Equal(t, "Only Name", updated.Name)
	assert.Empty(t, updated.Password)
	assert.True(t, updated.BornDate.IsZero())
	assert.Equal(t, types.TimeOfDay{}, updated.BornTime)
}

func TestUpdateStudent_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpdateStudent(context.Background(), 42, hugo())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Zero(t, f.calls.counts["ReplaceExisting"], "no write after a failed existence check")
	assert.Equal(t, 2, f.store.Len())
}

func TestDeleteStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.DeleteStudent(ctx, 1))

	_, err := f.service.GetStudentByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	// The only lookup is the read above; delete itself does not pre-check.
	assert.Equal(t, 1, f.calls.counts["FindByID"])
}

func TestDeleteStudent_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.service.DeleteStudent(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 1, f.calls.counts["DeleteByID"])
	assert.Zero(t, f.calls.counts["FindByID"])
}

func TestDeleteStudent_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.DeleteStudent(ctx, 2))
	assert.ErrorIs(t, f.service.DeleteStudent(ctx, 2), storage.ErrNotFound)
	_, err := f.service.UpdateStudent(ctx, 2, hugo())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorageFaultsPropagateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fault := fmt.Errorf("FindByID: scan: %w", errors.New("connection reset"))
	f.store.InjectFault(fault)

	_, err := f.service.GetAllStudents(ctx)
	assert.Same(t, fault, err)

	_, err = f.service.GetStudentByID(ctx, 1)
	assert.Same(t, fault, err)
	assert.False(t, storage.IsNotFound(err))

	_, err = f.service.CreateStudent(ctx, hugo())
	assert.Same(t, fault, err)

	_, err = f.service.UpdateStudent(ctx, 1, hugo())
	assert.Same(t, fault, err)

	assert.Same(t, fault, f.service.DeleteStudent(ctx, 1))
}
