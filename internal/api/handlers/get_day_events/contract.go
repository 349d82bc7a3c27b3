package get_day_events

import (
	"context"

	getDayEvents "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_events"
)

type GetDayEventsUseCase interface {
	Execute(ctx context.Context, req *getDayEvents.Request) (*getDayEvents.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
