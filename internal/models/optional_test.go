package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOptional_ScanNull(t *testing.T) {
	t.Parallel()

	o := Some("stale")
	if err := o.Scan(nil); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if o.IsPresent() {
		t.Fatalf("expected absent after scanning NULL")
	}
}

func TestOptional_ScanValue(t *testing.T) {
	t.Parallel()

	var o Optional[string]
	if err := o.Scan([]byte("evt-1")); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	v, ok := o.Get()
	if !ok || v != "evt-1" {
		t.Fatalf("expected present evt-1, got %q (%v)", v, ok)
	}
}

func TestOptional_Value(t *testing.T) {
	t.Parallel()

	v, err := None[string]().Value()
	if err != nil || v != nil {
		t.Fatalf("expected nil driver value, got %v (%v)", v, err)
	}
	v, err = Some("x").Value()
	if err != nil || v != "x" {
		t.Fatalf("expected x, got %v (%v)", v, err)
	}
}

func TestOptional_OrElse(t *testing.T) {
	t.Parallel()

	if got := None[string]().OrElse("def"); got != "def" {
		t.Fatalf("expected def, got %q", got)
	}
	if got := Some("").OrElse("def"); got != "" {
		t.Fatalf("expected present empty string, got %q", got)
	}
}

func TestTodoInput_AbsentFieldsDecodeAsNone(t *testing.T) {
	t.Parallel()

	var in TodoInput
	if err := json.Unmarshal([]byte(`{"title":"Buy milk"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	todo := in.Todo(0)
	if todo.Completed {
		t.Fatalf("expected completed to default to false")
	}
	if todo.Description.IsPresent() || todo.ExternalCalendarEventID.IsPresent() {
		t.Fatalf("expected optional fields absent, got %+v", todo)
	}
}

func TestTodoInput_TitleMayBeAbsent(t *testing.T) {
	t.Parallel()

	var in TodoInput
	if err := json.Unmarshal([]byte(`{"description":"no title"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Title.IsPresent() {
		t.Fatalf("expected title absent, got %+v", in.Title)
	}
	b, err := json.Marshal(in.Todo(5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":5,"title":null,"description":"no title","completed":false,"external_calendar_event_id":null}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}

func TestReminderInput_EmptyStringsAreValues(t *testing.T) {
	t.Parallel()

	var in ReminderInput
	if err := json.Unmarshal([]byte(`{"reminder_text":"","importance":""}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.ReminderText == nil || in.Importance == nil {
		t.Fatalf("expected both keys to be present, got %+v", in)
	}
	rm := in.Reminder(1)
	if rm.ReminderText != "" || rm.Importance != "" {
		t.Fatalf("expected empty strings, got %+v", rm)
	}
}

func TestTodo_AbsentFieldsEncodeAsNull(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Todo{ID: 1, Title: Some("Buy milk"), ExternalCalendarEventID: Some("g-1")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1,"title":"Buy milk","description":null,"completed":false,"external_calendar_event_id":"g-1"}`
	if string(b) != want {
		t.Fatalf("expected %s, got %s", want, b)
	}
}

func TestCalendarEventInput_ExplicitNull(t *testing.T) {
	t.Parallel()

	var in CalendarEventInput
	body := `{"title":"t","description":"d","event_from":"2026-01-02T10:00:00Z","event_to":"2026-01-02T09:00:00Z","external_calendar_event_id":null}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.ExternalCalendarEventID.IsPresent() {
		t.Fatalf("expected explicit null to be absent")
	}
	ev := in.CalendarEvent(0)
	if !ev.EventFrom.After(ev.EventTo) {
		t.Fatalf("expected inverted interval to decode as given")
	}
	if ev.EventFrom.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", ev.EventFrom.Location())
	}
}

func TestCommand_Key(t *testing.T) {
	t.Parallel()

	c := &Command{Entity: EntityCalendarEvent, ID: 42}
	if got := c.Key(); got != "calendar_event:42" {
		t.Fatalf("expected calendar_event:42, got %q", got)
	}
}
