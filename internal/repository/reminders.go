package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"syfw-todo/internal/models"
	"syfw-todo/pkg/logger"
)

const reminderColumns = `id, reminder_text, importance, external_calendar_event_id`

func scanReminder(r rowScanner) (models.Reminder, error) {
	var rm models.Reminder
	err := r.Scan(&rm.ID, &rm.ReminderText, &rm.Importance, &rm.ExternalCalendarEventID)
	return rm, err
}

func (s *Store) CreateReminder(ctx context.Context, rm *models.Reminder) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	err = db.QueryRowContext(ctx,
		`INSERT INTO reminders (reminder_text, importance, external_calendar_event_id)
		 VALUES ($1, $2, $3) RETURNING id`,
		rm.ReminderText, rm.Importance, rm.ExternalCalendarEventID).Scan(&rm.ID)
	if err != nil {
		logger.Error(ctx, "Repository CreateReminder failed", "error", err)
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (s *Store) GetReminder(ctx context.Context, id int64) (models.Reminder, error) {
	db, err := s.conn()
	if err != nil {
		return models.Reminder{}, err
	}
	rm, err := scanReminder(db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM reminders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reminder{}, ErrNotFound
		}
		return models.Reminder{}, fmt.Errorf("get reminder: %w", err)
	}
	return rm, nil
}

func (s *Store) ListReminders(ctx context.Context, limit, offset int) ([]models.Reminder, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	l, o := pageArgs(limit, offset)
	rows, err := db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders ORDER BY id LIMIT $1 OFFSET $2`, l, o)
	if err != nil {
		logger.Error(ctx, "Repository ListReminders failed", "error", err)
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()
	out := []models.Reminder{}
	for rows.Next() {
		rm, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (s *Store) UpdateReminder(ctx context.Context, rm models.Reminder) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE reminders SET reminder_text = $1, importance = $2, external_calendar_event_id = $3
		 WHERE id = $4`,
		rm.ReminderText, rm.Importance, rm.ExternalCalendarEventID, rm.ID)
	if err != nil {
		logger.Error(ctx, "Repository UpdateReminder failed", "error", err, "id", rm.ID)
		return fmt.Errorf("update reminder: %w", err)
	}
	return affectedOne(res)
}

func (s *Store) DeleteReminder(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		logger.Error(ctx, "Repository DeleteReminder failed", "error", err, "id", id)
		return fmt.Errorf("delete reminder: %w", err)
	}
	return affectedOne(res)
}
