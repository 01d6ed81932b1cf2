package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("store unavailable")
)

// Store reads and writes todos, reminders and calendar events.
type Store struct {
	db *sql.DB
}

// New wraps an open connection pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrUnavailable
	}
	return s.db, nil
}

// Ping checks the underlying pool.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// IsConstraintViolation reports whether err is a Postgres error caused by the
// input rather than the server: null/check violations and malformed values.
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "23502", "23514", "22P02", "22007", "22008":
		return true
	}
	return false
}

// pageArgs turns limit/offset into query args; a NULL limit returns all rows.
func pageArgs(limit, offset int) (any, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, offset
	}
	return limit, offset
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
