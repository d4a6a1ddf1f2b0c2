// Package types holds the shared data structures used across the
// application. Keeping them in one place prevents import cycles:
// handlers, the service, and every storage backend import types without
// depending on each other.
package types

// Student represents a student record.
//
// ID is zero for a transient student (one that has never been
// persisted). The store assigns it exactly once on first insert and it
// never changes afterwards.
//
// Struct tags:
//
//  1. json:"..."     controls the JSON key names (camelCase on the wire).
//  2. validate:"..." rules checked by go-playground/validator before a
//     draft reaches the service.
//
// Password is kept in plaintext. Hashing is outside the scope of this
// service.
type Student struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"     validate:"required"`
	Password string    `json:"password" validate:"required"`
	BornDate Date      `json:"bornDate"`
	BornTime TimeOfDay `json:"bornTime"`
}

// IsTransient reports whether s has not been assigned an id yet.
func (s Student) IsTransient() bool {
	return s.ID == 0
}
