// Package schema declares the persisted collections and renders their DDL.
package schema

import (
	"fmt"
	"strings"
)

// ScalarType is the storage type of a column.
type ScalarType int

const (
	Integer ScalarType = iota
	Text
	Boolean
	Timestamp
)

func (t ScalarType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("ScalarType(%d)", int(t))
	}
}

// Field is one column declaration.
type Field struct {
	Name       string
	Type       ScalarType
	PrimaryKey bool
	Nullable   bool
	Indexed    bool
	Default    string // SQL literal, empty for none
}

// Entity is a named collection of fields.
type Entity struct {
	Table  string
	Fields []Field
}

const ExternalCalendarEventID = "external_calendar_event_id"

var Todos = Entity{
	Table: "todos",
	Fields: []Field{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "title", Type: Text, Nullable: true, Indexed: true},
		{Name: "description", Type: Text, Nullable: true},
		{Name: "completed", Type: Boolean, Default: "FALSE"},
		{Name: ExternalCalendarEventID, Type: Text, Nullable: true},
	},
}

var Reminders = Entity{
	Table: "reminders",
	Fields: []Field{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "reminder_text", Type: Text},
		{Name: "importance", Type: Text},
		{Name: ExternalCalendarEventID, Type: Text, Nullable: true},
	},
}

var CalendarEvents = Entity{
	Table: "calendar_events",
	Fields: []Field{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "title", Type: Text, Indexed: true},
		{Name: "description", Type: Text},
		{Name: "event_from", Type: Timestamp},
		{Name: "event_to", Type: Timestamp},
		{Name: ExternalCalendarEventID, Type: Text, Nullable: true},
	},
}

// All returns every declared entity in creation order.
func All() []Entity {
	return []Entity{Todos, Reminders, CalendarEvents}
}

// Columns returns the column names in declaration order.
func (e Entity) Columns() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Name)
	}
	return out
}

// Field looks up a column by name.
func (e Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// CreateTableSQL renders an idempotent Postgres CREATE TABLE statement.
func (e Entity) CreateTableSQL() string {
	cols := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		cols = append(cols, "\t"+columnDDL(f))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", e.Table, strings.Join(cols, ",\n"))
}

// CreateIndexSQL renders one CREATE INDEX statement per indexed field.
// Primary keys are indexed by the table definition itself.
func (e Entity) CreateIndexSQL() []string {
	var out []string
	for _, f := range e.Fields {
		if !f.Indexed || f.PrimaryKey {
			continue
		}
		out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)", e.Table, f.Name, e.Table, f.Name))
	}
	return out
}

func columnDDL(f Field) string {
	if f.PrimaryKey {
		return f.Name + " BIGSERIAL PRIMARY KEY"
	}
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(' ')
	b.WriteString(sqlType(f.Type))
	if !f.Nullable {
		b.WriteString(" NOT NULL")
	}
	if f.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(f.Default)
	}
	return b.String()
}

func sqlType(t ScalarType) string {
	switch t {
	case Integer:
		return "BIGINT"
	case Boolean:
		return "BOOLEAN"
	case Timestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
