package booking_wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// SessionStore интерфейс хранилища сессий мастера
type SessionStore interface {
	Create(ctx context.Context, session domain.BookingSession) error
	Get(ctx context.Context, id string) (domain.BookingSession, error)
	Update(ctx context.Context, id string, fn func(domain.BookingSession) (domain.BookingSession, error)) (domain.BookingSession, error)
}

// AvailabilityProvider интерфейс расчета доступности слотов
type AvailabilityProvider interface {
	IsConfigured() bool
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// EventCreator интерфейс создания события в календаре.
// Непустое событие вместе с ошибкой означает, что событие в календаре создано,
// а запись в локальное зеркало отложена.
type EventCreator interface {
	Create(ctx context.Context, draft domain.EventDraft) (*domain.CalendarEvent, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
