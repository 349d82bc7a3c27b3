package events

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CalendarClient интерфейс клиента календаря провайдера
type CalendarClient interface {
	CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.CalendarEvent, error)
	GetEvent(ctx context.Context, eventID string) (*domain.CalendarEvent, error)
	UpdateEvent(ctx context.Context, eventID string, changes domain.EventChanges) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]*domain.CalendarEvent, error)
}

// EventRepository интерфейс локального зеркала событий
type EventRepository interface {
	Upsert(ctx context.Context, ev *domain.CalendarEvent) (*domain.CalendarEvent, error)
	GetByExternalID(ctx context.Context, externalEventID string) (*domain.CalendarEvent, error)
	GetByExternalIDs(ctx context.Context, externalEventIDs []string) (map[string]*domain.CalendarEvent, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.CalendarEvent, error)
	DeleteByExternalID(ctx context.Context, externalEventID string) error
}

// OutboxRepository интерфейс журнала отложенных записей в зеркало
type OutboxRepository interface {
	Enqueue(ctx context.Context, op *domain.SyncOperation) (*domain.SyncOperation, error)
	FetchPending(ctx context.Context, limit int) ([]*domain.SyncOperation, error)
	LockPending(ctx context.Context, id int64) (*domain.SyncOperation, error)
	MarkDone(ctx context.Context, id int64) error
	MarkAttemptFailed(ctx context.Context, id int64, lastError string, maxAttempts int) error
	SupersedePending(ctx context.Context, externalEventID string) (int64, error)
	CountPending(ctx context.Context) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutboxRecorder получатель метрик outbox
type OutboxRecorder interface {
	SetOutboxPending(n int)
	ObserveOutboxResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
