package googlecalendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BusyResolver получает занятые интервалы календаря на день.
// При failOpen любая ошибка провайдера превращается в пустой набор: бронирование
// не блокируется, ценой возможного двойного бронирования.
type BusyResolver struct {
	client   FreeBusyClient
	failOpen bool
	recorder FailOpenRecorder
	log      Logger
}

// NewBusyResolver создает резолвер. recorder может быть nil.
func NewBusyResolver(client FreeBusyClient, failOpen bool, recorder FailOpenRecorder, log Logger) *BusyResolver {
	return &BusyResolver{
		client:   client,
		failOpen: failOpen,
		recorder: recorder,
		log:      log,
	}
}

// Resolve выполняет один free/busy запрос для [dayStart, dayEnd)
func (r *BusyResolver) Resolve(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.BusyInterval, error) {
	busy, err := r.client.FreeBusy(ctx, dayStart, dayEnd)
	if err == nil {
		return busy, nil
	}

	if !r.failOpen {
		r.log.Error("Resolve: free/busy query failed for %s - %s: %v",
			dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339), err)
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityQuery, err)
	}

	// Уровень ERROR: молчаливый fail-open должен быть заметен в логах
	r.log.Error("Resolve: free/busy query failed, applying fail-open for %s - %s: %v",
		dayStart.Format(time.RFC3339), dayEnd.Format(time.RFC3339), err)
	if r.recorder != nil {
		r.recorder.IncFailOpen()
	}
	return []domain.BusyInterval{}, nil
}
