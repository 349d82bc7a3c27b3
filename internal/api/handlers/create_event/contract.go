package create_event

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type EventsService interface {
	Create(ctx context.Context, draft domain.EventDraft) (*domain.CalendarEvent, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
