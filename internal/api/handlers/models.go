package handlers

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// EventResponse событие календаря в HTTP ответе
type EventResponse struct {
	ID              *int64   `json:"id,omitempty"` // nil, если у события нет записи в зеркале
	ExternalEventID string   `json:"externalEventId"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	Attendees       []string `json:"attendees"`
	MeetingLink     string   `json:"meetingLink,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// FromDomainEvent конвертирует событие в HTTP модель, время в поясе loc
func FromDomainEvent(ev *domain.CalendarEvent, loc *time.Location) EventResponse {
	resp := EventResponse{
		ExternalEventID: ev.ExternalEventID,
		Title:           ev.Title,
		Description:     ev.Description,
		StartTime:       ev.StartTime.In(loc).Format(time.RFC3339),
		EndTime:         ev.EndTime.In(loc).Format(time.RFC3339),
		Attendees:       ev.Attendees,
		MeetingLink:     ev.MeetingLink,
		Status:          string(ev.Status),
	}
	if resp.Attendees == nil {
		resp.Attendees = []string{}
	}
	if ev.IsMirrored() {
		id := ev.ID
		resp.ID = &id
	}
	return resp
}

// ParseLocation разбирает IANA пояс из параметра запроса, пусто = fallback
func ParseLocation(tz string, fallback *time.Location) (*time.Location, error) {
	if tz == "" {
		return fallback, nil
	}
	return time.LoadLocation(tz)
}

// ParseDate разбирает дату YYYY-MM-DD в поясе loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, loc)
}
