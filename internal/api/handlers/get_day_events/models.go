package get_day_events

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getDayEvents "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_events"
)

// DayEventsResponse HTTP response model
type DayEventsResponse struct {
	Date       string                   `json:"date"`
	Timezone   string                   `json:"timezone"`
	Events     []handlers.EventResponse `json:"events"`
	Reconcile  *ReconcileSummary        `json:"reconcile,omitempty"`
	FromMirror bool                     `json:"fromMirror,omitempty"`
}

// ReconcileSummary итог сверки, если она запрашивалась
type ReconcileSummary struct {
	Processed int `json:"processed"`
	Retried   int `json:"retried"`
	Skipped   int `json:"skipped"`
	Pending   int `json:"pending"`
}

func FromUseCaseResponse(resp *getDayEvents.Response, loc *time.Location) *DayEventsResponse {
	out := &DayEventsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		Timezone:   loc.String(),
		Events:     make([]handlers.EventResponse, 0, len(resp.Events)),
		FromMirror: resp.FromMirror,
	}
	for _, ev := range resp.Events {
		out.Events = append(out.Events, handlers.FromDomainEvent(ev, loc))
	}
	if resp.Reconcile != nil {
		out.Reconcile = &ReconcileSummary{
			Processed: resp.Reconcile.Processed,
			Retried:   resp.Reconcile.Retried,
			Skipped:   resp.Reconcile.Skipped,
			Pending:   resp.Reconcile.Pending,
		}
	}
	return out
}
