package googlecalendar

import (
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	conferenceTypeMeet     = "hangoutsMeet"
	entryPointTypeVideo    = "video"
	eventStatusCancelled   = "cancelled"
	sendUpdatesAll         = "all"
	defaultCalendarID      = "primary"
	conferenceDataVersion1 = 1
)

// Options параметры клиента
type Options struct {
	AccessToken string
	CalendarID  string
	Timeout     time.Duration
	// Endpoint переопределяет базовый адрес API, должен оканчиваться на "/"
	Endpoint string
	// HTTPClient готовый клиент; если задан, AccessToken не используется
	HTTPClient *http.Client
	Recorder   Recorder
}

// toDomainEvent конвертирует событие провайдера в CalendarEvent (без полей локального зеркала)
func toDomainEvent(ev *calendar.Event) (*domain.CalendarEvent, error) {
	if ev == nil || ev.Id == "" {
		return nil, fmt.Errorf("%w: event without id", ErrInvalidResponse)
	}

	start, err := parseEventTime(ev.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s start: %v", ErrInvalidResponse, ev.Id, err)
	}
	end, err := parseEventTime(ev.End)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s end: %v", ErrInvalidResponse, ev.Id, err)
	}

	attendees := make([]string, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		if a != nil && a.Email != "" {
			attendees = append(attendees, a.Email)
		}
	}

	return &domain.CalendarEvent{
		ExternalEventID: ev.Id,
		Title:           ev.Summary,
		Description:     ev.Description,
		StartTime:       start,
		EndTime:         end,
		Attendees:       attendees,
		MeetingLink:     meetingLink(ev),
	}, nil
}

// parseEventTime разбирает время события: dateTime (RFC3339) или date для событий на весь день
func parseEventTime(t *calendar.EventDateTime) (time.Time, error) {
	if t == nil {
		return time.Time{}, fmt.Errorf("missing time")
	}
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	if t.Date != "" {
		return time.Parse(domain.DateFormat, t.Date)
	}
	return time.Time{}, fmt.Errorf("empty time")
}

// meetingLink ссылка на видеовстречу: hangoutLink или video entry point конференции
func meetingLink(ev *calendar.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep != nil && ep.EntryPointType == entryPointTypeVideo && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}

func eventDateTime(t time.Time) *calendar.EventDateTime {
	dt := &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)}
	// "Local" не является IANA зоной, смещение уже есть в DateTime
	if tz := t.Location().String(); tz != "Local" {
		dt.TimeZone = tz
	}
	return dt
}

func attendeesOf(emails []string) []*calendar.EventAttendee {
	out := make([]*calendar.EventAttendee, 0, len(emails))
	for _, email := range emails {
		out = append(out, &calendar.EventAttendee{Email: email})
	}
	return out
}
