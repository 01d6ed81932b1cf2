package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"syfw-todo/internal/models"
	"syfw-todo/pkg/logger"
)

const todoColumns = `id, title, description, completed, external_calendar_event_id`

func scanTodo(r rowScanner) (models.Todo, error) {
	var t models.Todo
	err := r.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.ExternalCalendarEventID)
	return t, err
}

func collectTodos(rows *sql.Rows) ([]models.Todo, error) {
	defer rows.Close()
	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// CreateTodo inserts a todo and sets its assigned ID.
func (s *Store) CreateTodo(ctx context.Context, todo *models.Todo) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	err = db.QueryRowContext(ctx,
		`INSERT INTO todos (title, description, completed, external_calendar_event_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		todo.Title, todo.Description, todo.Completed, todo.ExternalCalendarEventID).Scan(&todo.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateTodo failed", "error", err)
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// GetTodo returns the todo with id, or ErrNotFound.
func (s *Store) GetTodo(ctx context.Context, id int64) (models.Todo, error) {
	db, err := s.conn()
	if err != nil {
		return models.Todo{}, err
	}
	t, err := scanTodo(db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Todo{}, ErrNotFound
		}
		return models.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// ListTodos returns todos ordered by id. limit <= 0 returns all.
func (s *Store) ListTodos(ctx context.Context, limit, offset int) ([]models.Todo, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	l, o := pageArgs(limit, offset)
	rows, err := db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY id LIMIT $1 OFFSET $2`, l, o)
	if err != nil {
		logger.Error(ctx, "Repository ListTodos failed", "error", err)
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return collectTodos(rows)
}

// ListTodosByTitle returns todos whose title equals title.
func (s *Store) ListTodosByTitle(ctx context.Context, title string) ([]models.Todo, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE title = $1 ORDER BY id`, title)
	if err != nil {
		return nil, fmt.Errorf("list todos by title: %w", err)
	}
	return collectTodos(rows)
}

// UpdateTodo replaces every column but id.
func (s *Store) UpdateTodo(ctx context.Context, todo models.Todo) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE todos SET title = $1, description = $2, completed = $3, external_calendar_event_id = $4
		 WHERE id = $5`,
		todo.Title, todo.Description, todo.Completed, todo.ExternalCalendarEventID, todo.ID)
	if err != nil {
		logger.Error(ctx, "Repository UpdateTodo failed", "error", err, "id", todo.ID)
		return fmt.Errorf("update todo: %w", err)
	}
	return affectedOne(res)
}

// DeleteTodo removes a todo by id.
func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteTodo failed", "error", err, "id", id)
		return fmt.Errorf("delete todo: %w", err)
	}
	return affectedOne(res)
}
