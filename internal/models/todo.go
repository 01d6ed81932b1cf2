package models

// Todo is a row of the todos collection. Title may be absent.
type Todo struct {
	ID                      int64            `json:"id"`
	Title                   Optional[string] `json:"title"`
	Description             Optional[string] `json:"description"`
	Completed               bool             `json:"completed"`
	ExternalCalendarEventID Optional[string] `json:"external_calendar_event_id"`
}

// TodoInput is the writable part of a Todo. Completed is false unless sent.
type TodoInput struct {
	Title                   Optional[string] `json:"title"`
	Description             Optional[string] `json:"description"`
	Completed               bool             `json:"completed"`
	ExternalCalendarEventID Optional[string] `json:"external_calendar_event_id"`
}

// Todo builds the record for input with the given id (0 for a new record).
func (in TodoInput) Todo(id int64) Todo {
	return Todo{
		ID:                      id,
		Title:                   in.Title,
		Description:             in.Description,
		Completed:               in.Completed,
		ExternalCalendarEventID: in.ExternalCalendarEventID,
	}
}
