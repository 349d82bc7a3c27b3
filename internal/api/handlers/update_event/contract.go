package update_event

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type EventsService interface {
	Update(ctx context.Context, externalID string, changes domain.EventChanges) (*domain.CalendarEvent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
