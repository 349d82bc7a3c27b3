package get_day_events

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

// Request модель запроса событий дня
type Request struct {
	Date     time.Time
	Location *time.Location
	Resync   bool // Перед выборкой выполнить проход сверки зеркала
}

// Response модель ответа со списком событий дня
type Response struct {
	Date       time.Time
	Events     []*domain.CalendarEvent
	Reconcile  *events.ReconcileResult // nil, если сверка не запрашивалась или не удалась
	FromMirror bool                    // Календарь недоступен, события из локального зеркала
}
