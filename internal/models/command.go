package models

import (
	"encoding/json"
	"strconv"
	"time"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entity names the collection a Command targets.
type Entity string

const (
	EntityTodo          Entity = "todo"
	EntityReminder      Entity = "reminder"
	EntityCalendarEvent Entity = "calendar_event"
)

// Command is the message payload for Kafka (update/delete of one record).
// Payload holds the entity's input shape for updates.
type Command struct {
	RequestID   string          `json:"request_id"`
	Action      Action          `json:"action"`
	Entity      Entity          `json:"entity"`
	ID          int64           `json:"id"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Subject     string          `json:"subject,omitempty"`
	RequestedAt time.Time       `json:"requested_at"`
}

// Key orders commands per record on a partitioned topic.
func (c *Command) Key() string {
	return string(c.Entity) + ":" + strconv.FormatInt(c.ID, 10)
}
