package jobs

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

// Reconciler проход сверки outbox
type Reconciler interface {
	Reconcile(ctx context.Context) (*events.ReconcileResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
