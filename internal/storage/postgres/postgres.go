// Package postgres implements storage.Storage on PostgreSQL through a
// pgx/v5 connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	// URL is a libpq connection string or postgres:// URL.
	URL string

	// MaxConns caps the pool size. Zero keeps the pgx default.
	MaxConns int32

	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
}

const createTable = `
	CREATE TABLE IF NOT EXISTS students (
		id        BIGSERIAL PRIMARY KEY,
		name      TEXT NOT NULL,
		password  TEXT NOT NULL,
		born_date DATE,
		born_time TIME
	)
`

const studentColumns = "id, name, password, born_date, born_time"

// Postgres is the concrete implementation of storage.Storage.
// *pgxpool.Pool is safe for concurrent use.
type Postgres struct {
	pool *pgxpool.Pool
}

// New connects, verifies the connection, and creates the students table
// if it does not exist.
func New(ctx context.Context, cfg Config) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) FindAll(ctx context.Context) ([]types.Student, error) {
	rows, err := p.pool.Query(ctx, "SELECT "+studentColumns+" FROM students ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("FindAll: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("FindAll: scan row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows iteration: %w", err)
	}

	return students, nil
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (types.Student, bool, error) {
	row := p.pool.QueryRow(ctx, "SELECT "+studentColumns+" FROM students WHERE id = $1", id)

	s, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, false, nil
		}
		return types.Student{}, false, fmt.Errorf("FindByID: scan: %w", err)
	}

	return s, true, nil
}

func (p *Postgres) InsertNew(ctx context.Context, s types.Student) (types.Student, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO students (name, password, born_date, born_time)
		VALUES ($1, $2, $3, $4)
		RETURNING `+studentColumns,
		s.Name, s.Password, dateParam(s.BornDate), timeParam(s.BornTime),
	)

	created, err := scanStudent(row)
	if err != nil {
		return types.Student{}, fmt.Errorf("InsertNew: %w", err)
	}

	return created, nil
}

// ReplaceExisting updates and reads back in one statement.
func (p *Postgres) ReplaceExisting(ctx context.Context, id int64, s types.Student) (types.Student, error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE students
		SET name = $1, password = $2, born_date = $3, born_time = $4
		WHERE id = $5
		RETURNING `+studentColumns,
		s.Name, s.Password, dateParam(s.BornDate), timeParam(s.BornTime), id,
	)

	updated, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Student{}, storage.NotFound(id)
		}
		return types.Student{}, fmt.Errorf("ReplaceExisting: %w", err)
	}

	return updated, nil
}

func (p *Postgres) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.NotFound(id)
	}
	return nil
}

// Close closes every connection in the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func scanStudent(row pgx.Row) (types.Student, error) {
	var (
		s        types.Student
		bornDate pgtype.Date
		bornTime pgtype.Time
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Password, &bornDate, &bornTime); err != nil {
		return types.Student{}, err
	}

	if bornDate.Valid {
		s.BornDate = types.DateOf(bornDate.Time)
	}
	if bornTime.Valid {
		s.BornTime = types.TimeOfDayFromDuration(time.Duration(bornTime.Microseconds) * time.Microsecond)
	}

	return s, nil
}

func dateParam(d types.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: !d.IsZero()}
}

func timeParam(t types.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.SinceMidnight() / time.Microsecond), Valid: true}
}
