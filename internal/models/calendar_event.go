package models

import "time"

// CalendarEvent is a row of the calendar_events collection.
// EventFrom is not required to precede EventTo.
type CalendarEvent struct {
	ID                      int64            `json:"id"`
	Title                   string           `json:"title"`
	Description             string           `json:"description"`
	EventFrom               time.Time        `json:"event_from"`
	EventTo                 time.Time        `json:"event_to"`
	ExternalCalendarEventID Optional[string] `json:"external_calendar_event_id"`
}

type CalendarEventInput struct {
	Title                   *string          `json:"title" binding:"required"`
	Description             *string          `json:"description" binding:"required"`
	EventFrom               *time.Time       `json:"event_from" binding:"required"`
	EventTo                 *time.Time       `json:"event_to" binding:"required"`
	ExternalCalendarEventID Optional[string] `json:"external_calendar_event_id"`
}

func (in CalendarEventInput) CalendarEvent(id int64) CalendarEvent {
	return CalendarEvent{
		ID:                      id,
		Title:                   deref(in.Title),
		Description:             deref(in.Description),
		EventFrom:               deref(in.EventFrom),
		EventTo:                 deref(in.EventTo),
		ExternalCalendarEventID: in.ExternalCalendarEventID,
	}
}
