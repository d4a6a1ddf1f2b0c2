// Package storage defines the Storage interface: the contract any
// database backend must satisfy to hold Student records.
//
// The service layer depends only on this interface. Switching databases
// means implementing it for the new backend and changing one line in
// main.go. Tests pass the in-memory implementation from storage/memory.
//
// Persistence is split into two explicit writes, InsertNew and
// ReplaceExisting, so a caller always states whether it expects the
// record to exist.
package storage

import (
	"context"

	"github.com/aanand-mishra/students-service/internal/types"
)

// Storage is the persistence contract for Student records.
type Storage interface {
	// FindAll returns every student in store order (ascending id for the
	// bundled backends). Returns an empty slice, not nil, when the store
	// holds nothing.
	FindAll(ctx context.Context) ([]types.Student, error)

	// FindByID fetches one student. The bool is false when no record
	// exists at id; the error is reserved for storage faults.
	FindByID(ctx context.Context, id int64) (types.Student, bool, error)

	// InsertNew persists s under a freshly assigned id and returns the
	// stored record. Any id already set on s is ignored.
	InsertNew(ctx context.Context, s types.Student) (types.Student, error)

	// ReplaceExisting overwrites every mutable field of the record at id
	// with the fields of s. The stored id stays id. Returns a
	// *NotFoundError when no record exists; it never inserts.
	ReplaceExisting(ctx context.Context, id int64, s types.Student) (types.Student, error)

	// DeleteByID removes the record at id permanently. Returns a
	// *NotFoundError when no record exists.
	DeleteByID(ctx context.Context, id int64) error

	// Close releases the backend's resources.
	Close() error
}
