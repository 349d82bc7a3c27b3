package update_event

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UpdateEventRequest HTTP request model, отсутствующие поля не меняются
type UpdateEventRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	StartTime   *string   `json:"startTime"` // RFC3339
	EndTime     *string   `json:"endTime"`   // RFC3339
	Attendees   *[]string `json:"attendees"`
	Status      *string   `json:"status"`
}

// ToDomain конвертирует HTTP запрос в изменения события
func (r *UpdateEventRequest) ToDomain() (domain.EventChanges, error) {
	changes := domain.EventChanges{
		Title:       r.Title,
		Description: r.Description,
	}

	if r.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return changes, fmt.Errorf("invalid startTime: %w", err)
		}
		changes.StartTime = &t
	}
	if r.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return changes, fmt.Errorf("invalid endTime: %w", err)
		}
		changes.EndTime = &t
	}
	if r.Attendees != nil {
		changes.Attendees = *r.Attendees
		if changes.Attendees == nil {
			changes.Attendees = []string{}
		}
	}
	if r.Status != nil {
		status := domain.EventStatus(*r.Status)
		changes.Status = &status
	}

	return changes, nil
}

// UpdateEventResponse HTTP response model
type UpdateEventResponse struct {
	handlers.EventResponse
	MirrorDeferred bool `json:"mirrorDeferred"`
}
