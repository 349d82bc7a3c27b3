package domain

import "time"

// EventStatus is a business status kept in the local mirror only
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusNoShow    EventStatus = "no_show"
)

// IsValid returns true if the status is known
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusScheduled, EventStatusConfirmed, EventStatusCompleted, EventStatusCancelled, EventStatusNoShow:
		return true
	}
	return false
}

// CalendarEvent is an event owned jointly by the calendar provider (existence and time)
// and the local mirror (business fields such as Status).
type CalendarEvent struct {
	ID              int64 // local mirror id, 0 if the event has no mirror row yet
	ExternalEventID string
	Title           string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Attendees       []string
	MeetingLink     string
	Status          EventStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsMirrored returns true if the event has a local mirror row
func (e *CalendarEvent) IsMirrored() bool {
	return e.ID > 0
}

// EventDraft is the input of event creation
type EventDraft struct {
	Title              string
	Description        string
	StartTime          time.Time
	EndTime            time.Time
	Attendees          []string
	Status             EventStatus
	RequestMeetingLink bool
}

// EventChanges holds the optional fields of an event update.
// Nil fields are left untouched.
type EventChanges struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Attendees   []string // nil = untouched, empty = clear
	Status      *EventStatus
}

// TouchesRemote returns true if at least one provider-owned field changes
func (c EventChanges) TouchesRemote() bool {
	return c.Title != nil || c.Description != nil || c.StartTime != nil || c.EndTime != nil || c.Attendees != nil
}

// IsEmpty returns true if nothing changes
func (c EventChanges) IsEmpty() bool {
	return !c.TouchesRemote() && c.Status == nil
}
