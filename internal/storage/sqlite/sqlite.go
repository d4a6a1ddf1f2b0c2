// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, nothing to install beyond the driver.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() does this when the package is loaded.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"

	// Side-effect only: registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB, which is a connection pool managed by database/sql
// and safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if
// it does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	// sql.Open does not connect yet. It only validates the driver name
	// and DSN; the first real connection happens on the first query.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Idempotent, safe to run on every startup.
	//
	// AUTOINCREMENT guarantees the ids of deleted rows are never handed
	// out again. Dates and times are kept as TEXT in their wire layout
	// so the driver does not coerce them into time.Time.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT    NOT NULL,
			password  TEXT    NOT NULL,
			born_date TEXT,
			born_time TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// InsertNew inserts a new row and returns it with the id SQLite assigned.
//
// Values travel as ? placeholders, never concatenated into the SQL, so
// user input can't change the statement.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) InsertNew(ctx context.Context, student types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO students (name, password, born_date, born_time) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("InsertNew: prepare: %w", err)
	}
	defer stmt.Close()

	// Order matches the ? placeholders. Date and TimeOfDay implement
	// driver.Valuer.
	result, err := stmt.ExecContext(ctx,
		student.Name, student.Password, student.BornDate, student.BornTime)
	if err != nil {
		return types.Student{}, fmt.Errorf("InsertNew: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("InsertNew: last insert id: %w", err)
	}

	student.ID = lastID
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindByID fetches exactly one row matched by primary key.
//
// QueryRow never returns nil for "no match". sql.ErrNoRows surfaces
// from Scan instead, and is reported here as ok == false.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, password, born_date, born_time FROM students WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Student{}, false, fmt.Errorf("FindByID: prepare: %w", err)
	}
	defer stmt.Close()

	var student types.Student

	err = stmt.QueryRowContext(ctx, id).Scan(
		&student.ID,
		&student.Name,
		&student.Password,
		&student.BornDate,
		&student.BornTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("FindByID: scan: %w", err)
	}

	return student, true, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// FindAll returns all rows in ascending id order.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) FindAll(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		// Explicit column list keeps Scan's ordering stable if the
		// table grows.
		"SELECT id, name, password, born_date, born_time FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("FindAll: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so the JSON encoding is [] rather than null.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Password,
			&student.BornDate,
			&student.BornTime,
		); err != nil {
			return nil, fmt.Errorf("FindAll: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ReplaceExisting overwrites the mutable columns of the row at id.
// Zero affected rows means the id does not exist; nothing is inserted.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ReplaceExisting(ctx context.Context, id int64, student types.Student) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"UPDATE students SET name = ?, password = ?, born_date = ?, born_time = ? WHERE id = ?",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("ReplaceExisting: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		student.Name, student.Password, student.BornDate, student.BornTime, id)
	if err != nil {
		return types.Student{}, fmt.Errorf("ReplaceExisting: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("ReplaceExisting: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Student{}, storage.NotFound(id)
	}

	// Re-fetch so the caller gets exactly what is stored.
	updated, ok, err := s.FindByID(ctx, id)
	if err != nil {
		return types.Student{}, err
	}
	if !ok {
		return types.Student{}, storage.NotFound(id)
	}

	return updated, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteByID removes a row by primary key.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeleteByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.NotFound(id)
	}

	return nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
