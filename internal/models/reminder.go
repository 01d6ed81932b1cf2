package models

// Reminder is a row of the reminders collection. Importance is a free-form label.
type Reminder struct {
	ID                      int64            `json:"id"`
	ReminderText            string           `json:"reminder_text"`
	Importance              string           `json:"importance"`
	ExternalCalendarEventID Optional[string] `json:"external_calendar_event_id"`
}

// ReminderInput requires both text keys to be sent; an empty string is a value.
type ReminderInput struct {
	ReminderText            *string          `json:"reminder_text" binding:"required"`
	Importance              *string          `json:"importance" binding:"required"`
	ExternalCalendarEventID Optional[string] `json:"external_calendar_event_id"`
}

func (in ReminderInput) Reminder(id int64) Reminder {
	return Reminder{
		ID:                      id,
		ReminderText:            deref(in.ReminderText),
		Importance:              deref(in.Importance),
		ExternalCalendarEventID: in.ExternalCalendarEventID,
	}
}

func deref[T any](p *T) T {
	var v T
	if p != nil {
		v = *p
	}
	return v
}
