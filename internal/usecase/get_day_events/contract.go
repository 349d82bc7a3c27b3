package get_day_events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

// EventSynchronizer интерфейс сервиса синхронизации событий
type EventSynchronizer interface {
	List(ctx context.Context, from, to time.Time) ([]*domain.CalendarEvent, error)
	Reconcile(ctx context.Context) (*events.ReconcileResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
