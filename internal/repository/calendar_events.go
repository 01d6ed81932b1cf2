package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"syfw-todo/internal/models"
	"syfw-todo/pkg/logger"
)

const calendarEventColumns = `id, title, description, event_from, event_to, external_calendar_event_id`

func scanCalendarEvent(r rowScanner) (models.CalendarEvent, error) {
	var e models.CalendarEvent
	err := r.Scan(&e.ID, &e.Title, &e.Description, &e.EventFrom, &e.EventTo, &e.ExternalCalendarEventID)
	return e, err
}

func collectCalendarEvents(rows *sql.Rows) ([]models.CalendarEvent, error) {
	defer rows.Close()
	out := []models.CalendarEvent{}
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateCalendarEvent inserts an event as given; an event_from later than
// event_to is stored unchanged.
func (s *Store) CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	err = db.QueryRowContext(ctx,
		`INSERT INTO calendar_events (title, description, event_from, event_to, external_calendar_event_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		e.Title, e.Description, e.EventFrom, e.EventTo, e.ExternalCalendarEventID).Scan(&e.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateCalendarEvent failed", "error", err)
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

func (s *Store) GetCalendarEvent(ctx context.Context, id int64) (models.CalendarEvent, error) {
	db, err := s.conn()
	if err != nil {
		return models.CalendarEvent{}, err
	}
	e, err := scanCalendarEvent(db.QueryRowContext(ctx,
		`SELECT `+calendarEventColumns+` FROM calendar_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CalendarEvent{}, ErrNotFound
		}
		return models.CalendarEvent{}, fmt.Errorf("get calendar event: %w", err)
	}
	return e, nil
}

func (s *Store) ListCalendarEvents(ctx context.Context, limit, offset int) ([]models.CalendarEvent, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	l, o := pageArgs(limit, offset)
	rows, err := db.QueryContext(ctx,
		`SELECT `+calendarEventColumns+` FROM calendar_events ORDER BY id LIMIT $1 OFFSET $2`, l, o)
	if err != nil {
		logger.Error(ctx, "Repository ListCalendarEvents failed", "error", err)
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	return collectCalendarEvents(rows)
}

func (s *Store) ListCalendarEventsByTitle(ctx context.Context, title string) ([]models.CalendarEvent, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+calendarEventColumns+` FROM calendar_events WHERE title = $1 ORDER BY id`, title)
	if err != nil {
		return nil, fmt.Errorf("list calendar events by title: %w", err)
	}
	return collectCalendarEvents(rows)
}

// ListCalendarEventsBetween returns events whose interval touches [from, to],
// ordered by start. A stored event with event_from after event_to is matched
// on its earlier and later bound.
func (s *Store) ListCalendarEventsBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+calendarEventColumns+` FROM calendar_events
		 WHERE LEAST(event_from, event_to) <= $2 AND GREATEST(event_from, event_to) >= $1
		 ORDER BY LEAST(event_from, event_to), id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar events between: %w", err)
	}
	return collectCalendarEvents(rows)
}

func (s *Store) UpdateCalendarEvent(ctx context.Context, e models.CalendarEvent) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE calendar_events SET title = $1, description = $2, event_from = $3, event_to = $4,
		 external_calendar_event_id = $5 WHERE id = $6`,
		e.Title, e.Description, e.EventFrom, e.EventTo, e.ExternalCalendarEventID, e.ID)
	if err != nil {
		logger.Error(ctx, "Repository UpdateCalendarEvent failed", "error", err, "id", e.ID)
		return fmt.Errorf("update calendar event: %w", err)
	}
	return affectedOne(res)
}

func (s *Store) DeleteCalendarEvent(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteCalendarEvent failed", "error", err, "id", id)
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return affectedOne(res)
}
