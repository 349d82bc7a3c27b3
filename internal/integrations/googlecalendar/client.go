package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Client клиент Google Calendar для календаря администратора
type Client struct {
	srv        *calendar.Service
	calendarID string
	recorder   Recorder
	log        Logger
}

// NewClient создает клиент. Токен доступа используется как статический OAuth2 токен.
func NewClient(ctx context.Context, opts Options, log Logger) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.AccessToken == "" {
			return nil, fmt.Errorf("%w: access token is empty", ErrUnauthorized)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = opts.Timeout
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	srv, err := calendar.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrInternal, err)
	}

	calendarID := opts.CalendarID
	if calendarID == "" {
		calendarID = defaultCalendarID
	}

	return &Client{
		srv:        srv,
		calendarID: calendarID,
		recorder:   opts.Recorder,
		log:        log,
	}, nil
}

// FreeBusy возвращает занятые интервалы календаря в [timeMin, timeMax)
func (c *Client) FreeBusy(ctx context.Context, timeMin, timeMax time.Time) (busy []domain.BusyInterval, err error) {
	defer c.observe("freebusy", time.Now(), &err)

	req := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: c.calendarID}},
	}

	resp, err := c.srv.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, mapError("freebusy", err)
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: calendar %s missing in free/busy response", ErrInvalidResponse, c.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("%w: free/busy error for %s: %s", ErrInvalidResponse, c.calendarID, cal.Errors[0].Reason)
	}

	busy = make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		if period == nil {
			continue
		}
		start, errStart := time.Parse(time.RFC3339, period.Start)
		end, errEnd := time.Parse(time.RFC3339, period.End)
		if errStart != nil || errEnd != nil {
			c.log.Warn("FreeBusy: skipping malformed busy period start=%q end=%q", period.Start, period.End)
			continue
		}
		interval := domain.BusyInterval{Start: start, End: end}
		if !interval.IsValid() {
			c.log.Warn("FreeBusy: skipping empty busy period start=%q end=%q", period.Start, period.End)
			continue
		}
		busy = append(busy, interval)
	}

	return busy, nil
}

// CreateEvent создает событие; при RequestMeetingLink запрашивает Google Meet
func (c *Client) CreateEvent(ctx context.Context, draft domain.EventDraft) (created *domain.CalendarEvent, err error) {
	defer c.observe("events.insert", time.Now(), &err)

	ev := &calendar.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start:       eventDateTime(draft.StartTime),
		End:         eventDateTime(draft.EndTime),
		Attendees:   attendeesOf(draft.Attendees),
	}

	call := c.srv.Events.Insert(c.calendarID, ev).SendUpdates(sendUpdatesAll)
	if draft.RequestMeetingLink {
		ev.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: conferenceTypeMeet},
			},
		}
		call = call.ConferenceDataVersion(conferenceDataVersion1)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, mapError("events.insert", err)
	}

	return toDomainEvent(resp)
}

// GetEvent получает событие по внешнему ID. Отмененные события считаются отсутствующими.
func (c *Client) GetEvent(ctx context.Context, eventID string) (event *domain.CalendarEvent, err error) {
	defer c.observe("events.get", time.Now(), &err)

	resp, err := c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, mapError("events.get", err)
	}
	if resp.Status == eventStatusCancelled {
		return nil, ErrEventNotFound
	}

	return toDomainEvent(resp)
}

// UpdateEvent частично обновляет событие (PATCH): меняются только заданные поля
func (c *Client) UpdateEvent(ctx context.Context, eventID string, changes domain.EventChanges) (updated *domain.CalendarEvent, err error) {
	defer c.observe("events.patch", time.Now(), &err)

	patch := &calendar.Event{}
	if changes.Title != nil {
		patch.Summary = *changes.Title
		patch.ForceSendFields = append(patch.ForceSendFields, "Summary")
	}
	if changes.Description != nil {
		patch.Description = *changes.Description
		patch.ForceSendFields = append(patch.ForceSendFields, "Description")
	}
	if changes.StartTime != nil {
		patch.Start = eventDateTime(*changes.StartTime)
	}
	if changes.EndTime != nil {
		patch.End = eventDateTime(*changes.EndTime)
	}
	if changes.Attendees != nil {
		patch.Attendees = attendeesOf(changes.Attendees)
		patch.ForceSendFields = append(patch.ForceSendFields, "Attendees")
	}

	resp, err := c.srv.Events.Patch(c.calendarID, eventID, patch).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapError("events.patch", err)
	}

	return toDomainEvent(resp)
}

// DeleteEvent удаляет событие. Уже удаленное событие возвращает ErrEventNotFound.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) (err error) {
	defer c.observe("events.delete", time.Now(), &err)

	if err := c.srv.Events.Delete(c.calendarID, eventID).SendUpdates(sendUpdatesAll).Context(ctx).Do(); err != nil {
		return mapError("events.delete", err)
	}
	return nil
}

// ListEvents возвращает события в [timeMin, timeMax) по возрастанию времени начала
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) (events []*domain.CalendarEvent, err error) {
	defer c.observe("events.list", time.Now(), &err)

	call := c.srv.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime")

	events = make([]*domain.CalendarEvent, 0)
	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if item == nil || item.Status == eventStatusCancelled {
				continue
			}
			ev, err := toDomainEvent(item)
			if err != nil {
				c.log.Warn("ListEvents: skipping event: %v", err)
				continue
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, mapError("events.list", err)
	}

	return events, nil
}

func (c *Client) observe(operation string, start time.Time, err *error) {
	if c.recorder != nil {
		c.recorder.ObserveProviderCall(operation, *err, time.Since(start))
	}
}

// mapError приводит ошибки googleapi к ошибкам клиента
func mapError(operation string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return ErrEventNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s: %v", ErrUnauthorized, operation, apiErr)
		default:
			return fmt.Errorf("%w: %s: status %d: %v", ErrInvalidResponse, operation, apiErr.Code, apiErr)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, operation, err)
}
