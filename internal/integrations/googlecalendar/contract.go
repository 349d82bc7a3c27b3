package googlecalendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// FreeBusyClient клиент free/busy запросов
type FreeBusyClient interface {
	FreeBusy(ctx context.Context, timeMin, timeMax time.Time) ([]domain.BusyInterval, error)
}

// Recorder получатель метрик вызовов провайдера
type Recorder interface {
	ObserveProviderCall(operation string, err error, duration time.Duration)
}

// FailOpenRecorder счетчик срабатываний fail-open
type FailOpenRecorder interface {
	IncFailOpen()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
