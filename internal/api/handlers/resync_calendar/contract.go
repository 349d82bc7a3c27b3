package resync_calendar

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

type Reconciler interface {
	Reconcile(ctx context.Context) (*events.ReconcileResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
