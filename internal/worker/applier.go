package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"syfw-todo/internal/cache"
	"syfw-todo/internal/models"
	"syfw-todo/internal/repository"
	"syfw-todo/pkg/logger"
)

var ErrUnknownCommand = errors.New("unknown command")

// Applier writes commands to the store and invalidates the affected cache
// entries. Dispatching to an Applier applies the command synchronously.
type Applier struct {
	store *repository.Store
	cache *cache.Cache
}

func NewApplier(store *repository.Store, c *cache.Cache) *Applier {
	return &Applier{store: store, cache: c}
}

func (a *Applier) Dispatch(ctx context.Context, cmd *models.Command) error {
	return a.Apply(ctx, cmd)
}

// Apply executes one update or delete command.
func (a *Applier) Apply(ctx context.Context, cmd *models.Command) error {
	var err error
	switch cmd.Action {
	case models.ActionUpdate:
		err = a.update(ctx, cmd)
	case models.ActionDelete:
		err = a.delete(ctx, cmd)
	default:
		return fmt.Errorf("%w: action %q", ErrUnknownCommand, cmd.Action)
	}
	if err != nil {
		return err
	}
	a.cache.Invalidate(ctx, cmd.Entity, cmd.ID)
	logger.Debug(ctx, "Command applied", "entity", cmd.Entity, "action", cmd.Action, "id", cmd.ID, "request_id", cmd.RequestID)
	return nil
}

func (a *Applier) update(ctx context.Context, cmd *models.Command) error {
	switch cmd.Entity {
	case models.EntityTodo:
		var in models.TodoInput
		if err := json.Unmarshal(cmd.Payload, &in); err != nil {
			return fmt.Errorf("decode todo payload: %w", err)
		}
		return a.store.UpdateTodo(ctx, in.Todo(cmd.ID))
	case models.EntityReminder:
		var in models.ReminderInput
		if err := json.Unmarshal(cmd.Payload, &in); err != nil {
			return fmt.Errorf("decode reminder payload: %w", err)
		}
		return a.store.UpdateReminder(ctx, in.Reminder(cmd.ID))
	case models.EntityCalendarEvent:
		var in models.CalendarEventInput
		if err := json.Unmarshal(cmd.Payload, &in); err != nil {
			return fmt.Errorf("decode calendar event payload: %w", err)
		}
		return a.store.UpdateCalendarEvent(ctx, in.CalendarEvent(cmd.ID))
	default:
		return fmt.Errorf("%w: entity %q", ErrUnknownCommand, cmd.Entity)
	}
}

func (a *Applier) delete(ctx context.Context, cmd *models.Command) error {
	switch cmd.Entity {
	case models.EntityTodo:
		return a.store.DeleteTodo(ctx, cmd.ID)
	case models.EntityReminder:
		return a.store.DeleteReminder(ctx, cmd.ID)
	case models.EntityCalendarEvent:
		return a.store.DeleteCalendarEvent(ctx, cmd.ID)
	default:
		return fmt.Errorf("%w: entity %q", ErrUnknownCommand, cmd.Entity)
	}
}
