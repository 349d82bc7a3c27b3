package create_event

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CreateEventRequest HTTP request model
type CreateEventRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	StartTime          string   `json:"startTime"` // RFC3339
	EndTime            string   `json:"endTime"`   // RFC3339
	Attendees          []string `json:"attendees"`
	Status             string   `json:"status"`
	RequestMeetingLink bool     `json:"requestMeetingLink"`
}

// ToDomain конвертирует HTTP запрос в черновик события
func (r *CreateEventRequest) ToDomain() (domain.EventDraft, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return domain.EventDraft{}, fmt.Errorf("invalid startTime: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return domain.EventDraft{}, fmt.Errorf("invalid endTime: %w", err)
	}

	status := domain.EventStatus(r.Status)
	if status == "" {
		status = domain.EventStatusScheduled
	}

	return domain.EventDraft{
		Title:              r.Title,
		Description:        r.Description,
		StartTime:          start,
		EndTime:            end,
		Attendees:          r.Attendees,
		Status:             status,
		RequestMeetingLink: r.RequestMeetingLink,
	}, nil
}

// CreateEventResponse HTTP response model
type CreateEventResponse struct {
	handlers.EventResponse
	MirrorDeferred bool `json:"mirrorDeferred"` // событие создано, запись в зеркало отложена
}
