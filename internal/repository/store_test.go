package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"syfw-todo/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return New(db), mock
}

var (
	todoCols     = []string{"id", "title", "description", "completed", "external_calendar_event_id"}
	reminderCols = []string{"id", "reminder_text", "importance", "external_calendar_event_id"}
	eventCols    = []string{"id", "title", "description", "event_from", "event_to", "external_calendar_event_id"}
)

func TestCreateTodo_DefaultsAndAbsentFields(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	in := models.TodoInput{Title: models.Some("Buy milk")}
	todo := in.Todo(0)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos (title, description, completed, external_calendar_event_id)")).
		WithArgs("Buy milk", nil, false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	if err := store.CreateTodo(context.Background(), &todo); err != nil {
		t.Fatalf("CreateTodo returned error: %v", err)
	}
	if todo.ID != 7 {
		t.Fatalf("expected assigned id 7, got %d", todo.ID)
	}
	if todo.Completed {
		t.Fatalf("expected completed false")
	}
	if todo.Description.IsPresent() {
		t.Fatalf("expected description absent")
	}
}

func TestCreateTodo_WithoutTitle(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	todo := models.Todo{Description: models.Some("no title")}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO todos")).
		WithArgs(nil, "no title", false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(8, nil, "no title", false, nil))

	if err := store.CreateTodo(context.Background(), &todo); err != nil {
		t.Fatalf("CreateTodo returned error: %v", err)
	}
	got, err := store.GetTodo(context.Background(), todo.ID)
	if err != nil {
		t.Fatalf("GetTodo returned error: %v", err)
	}
	if got.Title.IsPresent() {
		t.Fatalf("expected title absent, got %+v", got.Title)
	}
}

func TestGetTodo_NullColumnsAreAbsent(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(7, "Buy milk", nil, false, nil))

	got, err := store.GetTodo(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetTodo returned error: %v", err)
	}
	if got.Title != models.Some("Buy milk") || got.Completed {
		t.Fatalf("unexpected todo %+v", got)
	}
	if got.Description.IsPresent() || got.ExternalCalendarEventID.IsPresent() {
		t.Fatalf("expected nullable columns absent, got %+v", got)
	}
}

func TestGetTodo_NotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(todoCols))

	_, err := store.GetTodo(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTodos_NoLimitPassesNull(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos ORDER BY id LIMIT $1 OFFSET $2")).
		WithArgs(nil, 0).
		WillReturnRows(sqlmock.NewRows(todoCols).
			AddRow(1, "a", "desc", true, "g-1").
			AddRow(2, "b", nil, false, nil))

	todos, err := store.ListTodos(context.Background(), 0, -5)
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("expected 2 todos, got %d", len(todos))
	}
	if v, ok := todos[0].ExternalCalendarEventID.Get(); !ok || v != "g-1" {
		t.Fatalf("expected external id g-1, got %q (%v)", v, ok)
	}
	if ids := []int64{todos[0].ID, todos[1].ID}; ids[0] >= ids[1] {
		t.Fatalf("expected ascending ids, got %v", ids)
	}
}

func TestListTodos_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos ORDER BY id")).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(todoCols))

	todos, err := store.ListTodos(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("ListTodos returned error: %v", err)
	}
	if todos == nil || len(todos) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", todos)
	}
}

func TestUpdateTodo_NeverWritesID(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE todos SET title = \$1, description = \$2, completed = \$3, external_calendar_event_id = \$4\s+WHERE id = \$5`).
		WithArgs("t", "d", true, nil, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	todo := models.Todo{ID: 3, Title: models.Some("t"), Description: models.Some("d"), Completed: true}
	if err := store.UpdateTodo(context.Background(), todo); err != nil {
		t.Fatalf("UpdateTodo returned error: %v", err)
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE todos")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateTodo(context.Background(), models.Todo{ID: 404, Title: models.Some("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTodo(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM todos WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteTodo(context.Background(), 5); err != nil {
		t.Fatalf("DeleteTodo returned error: %v", err)
	}
	if err := store.DeleteTodo(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListTodosByTitle(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM todos WHERE title = $1")).
		WithArgs("Buy milk").
		WillReturnRows(sqlmock.NewRows(todoCols).AddRow(1, "Buy milk", nil, false, nil))

	todos, err := store.ListTodosByTitle(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("ListTodosByTitle returned error: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != models.Some("Buy milk") {
		t.Fatalf("unexpected result %+v", todos)
	}
}

func TestReminder_ImportanceRoundTrip(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reminders")).
		WithArgs("call mom", "high", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reminders WHERE id = $1")).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(reminderCols).AddRow(11, "call mom", "high", nil))

	rm := models.Reminder{ReminderText: "call mom", Importance: "high"}
	if err := store.CreateReminder(context.Background(), &rm); err != nil {
		t.Fatalf("CreateReminder returned error: %v", err)
	}
	got, err := store.GetReminder(context.Background(), rm.ID)
	if err != nil {
		t.Fatalf("GetReminder returned error: %v", err)
	}
	if got.Importance != "high" {
		t.Fatalf("expected importance %q, got %q", "high", got.Importance)
	}
	if got.ExternalCalendarEventID.IsPresent() {
		t.Fatalf("expected external id absent")
	}
}

func TestReminder_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reminders SET reminder_text = $1, importance = $2, external_calendar_event_id = $3")).
		WithArgs("text", "whenever", "g-9", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reminders WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rm := models.Reminder{ID: 2, ReminderText: "text", Importance: "whenever", ExternalCalendarEventID: models.Some("g-9")}
	if err := store.UpdateReminder(context.Background(), rm); err != nil {
		t.Fatalf("UpdateReminder returned error: %v", err)
	}
	if err := store.DeleteReminder(context.Background(), 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReminders(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reminders ORDER BY id LIMIT $1 OFFSET $2")).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows(reminderCols).
			AddRow(1, "a", "low", nil).
			AddRow(2, "b", "urgent!!", "g-2"))

	got, err := store.ListReminders(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("ListReminders returned error: %v", err)
	}
	if len(got) != 2 || got[1].Importance != "urgent!!" {
		t.Fatalf("unexpected reminders %+v", got)
	}
}

func TestCreateCalendarEvent_InvertedIntervalAccepted(t *testing.T) {
	t.Parallel()

	// Known gap: nothing rejects event_from after event_to.
	store, mock := newMockStore(t)
	from := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	to := from.Add(-2 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO calendar_events")).
		WithArgs("standup", "daily", from, to, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	e := models.CalendarEvent{Title: "standup", Description: "daily", EventFrom: from, EventTo: to}
	if err := store.CreateCalendarEvent(context.Background(), &e); err != nil {
		t.Fatalf("expected inverted interval to be accepted, got %v", err)
	}
	if e.ID != 1 {
		t.Fatalf("expected id 1, got %d", e.ID)
	}
}

func TestGetCalendarEvent(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	from := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow(4, "review", "q1", from, to, "g-4"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(eventCols))

	got, err := store.GetCalendarEvent(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetCalendarEvent returned error: %v", err)
	}
	if !got.EventFrom.Equal(from) || !got.EventTo.Equal(to) {
		t.Fatalf("unexpected interval %v - %v", got.EventFrom, got.EventTo)
	}
	if _, err := store.GetCalendarEvent(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCalendarEventsBetween(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LEAST(event_from, event_to) <= $2 AND GREATEST(event_from, event_to) >= $1")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow(1, "a", "b", from.Add(time.Hour), from.Add(2*time.Hour), nil).
			AddRow(2, "inverted", "b", from.Add(4*time.Hour), from.Add(3*time.Hour), nil))

	got, err := store.ListCalendarEventsBetween(context.Background(), from, to)
	if err != nil {
		t.Fatalf("ListCalendarEventsBetween returned error: %v", err)
	}
	if len(got) != 2 || !got[1].EventFrom.After(got[1].EventTo) {
		t.Fatalf("expected both events with the inverted one unchanged, got %+v", got)
	}
}

func TestCalendarEvent_UpdateListByTitleDelete(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	from := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_events SET")).
		WithArgs("t", "d", from, from, nil, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events WHERE title = $1")).
		WithArgs("t").
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow(8, "t", "d", from, from, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events ORDER BY id")).
		WithArgs(nil, 0).
		WillReturnRows(sqlmock.NewRows(eventCols).AddRow(8, "t", "d", from, from, nil))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calendar_events WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	e := models.CalendarEvent{ID: 8, Title: "t", Description: "d", EventFrom: from, EventTo: from}
	if err := store.UpdateCalendarEvent(ctx, e); err != nil {
		t.Fatalf("UpdateCalendarEvent returned error: %v", err)
	}
	if got, err := store.ListCalendarEventsByTitle(ctx, "t"); err != nil || len(got) != 1 {
		t.Fatalf("ListCalendarEventsByTitle: expected 1 event, got %v (%v)", got, err)
	}
	if got, err := store.ListCalendarEvents(ctx, 0, 0); err != nil || len(got) != 1 {
		t.Fatalf("ListCalendarEvents: expected 1 event, got %v (%v)", got, err)
	}
	if err := store.DeleteCalendarEvent(ctx, 8); err != nil {
		t.Fatalf("DeleteCalendarEvent returned error: %v", err)
	}
}

func TestNilStore_Unavailable(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.GetTodo(context.Background(), 1); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := store.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestIsConstraintViolation(t *testing.T) {
	t.Parallel()

	notNull := fmt.Errorf("insert reminder: %w", &pq.Error{Code: "23502"})
	if !IsConstraintViolation(notNull) {
		t.Fatalf("expected not_null_violation to be classified")
	}
	if IsConstraintViolation(&pq.Error{Code: "08006"}) {
		t.Fatalf("expected connection failure not to be classified")
	}
	if IsConstraintViolation(errors.New("plain")) {
		t.Fatalf("expected plain error not to be classified")
	}
}
