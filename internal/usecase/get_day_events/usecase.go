package get_day_events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

// UseCase дневной список событий для внутреннего календаря
type UseCase struct {
	synchronizer EventSynchronizer
	defaultLoc   *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// synchronizer == nil означает, что доступ к календарю не настроен.
func NewUseCase(synchronizer EventSynchronizer, defaultLoc *time.Location, logger Logger) *UseCase {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &UseCase{
		synchronizer: synchronizer,
		defaultLoc:   defaultLoc,
		logger:       logger,
	}
}

// Execute возвращает события дня в порядке начала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if uc.synchronizer == nil {
		return nil, ErrNotConfigured
	}

	loc := req.Location
	if loc == nil {
		loc = uc.defaultLoc
	}
	dayStart, dayEnd := domain.DayBounds(req.Date, loc)

	resp := &Response{Date: dayStart}

	// 1. Сверка по запросу: ошибка сверки не мешает показать день
	if req.Resync {
		result, err := uc.synchronizer.Reconcile(ctx)
		if err != nil {
			uc.logger.Warn("GetDayEvents: resync failed: %v", err)
		} else {
			resp.Reconcile = result
		}
	}

	// 2. События дня у провайдера
	list, err := uc.synchronizer.List(ctx, dayStart, dayEnd)
	if errors.Is(err, events.ErrMirrorFallback) {
		uc.logger.Warn("GetDayEvents: calendar unavailable for %s, showing local mirror: %v", dayStart.Format(domain.DateFormat), err)
		resp.Events = list
		resp.FromMirror = true
		return resp, nil
	}
	if err != nil {
		if errors.Is(err, events.ErrRemoteList) {
			uc.logger.Error("GetDayEvents: calendar unavailable for %s: %v", dayStart.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: %v", ErrCalendarUnavailable, err)
		}
		uc.logger.Error("GetDayEvents: failed to list events: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	resp.Events = list

	uc.logger.Info("GetDayEvents: %d events on %s (%s)", len(list), dayStart.Format(domain.DateFormat), loc.String())
	return resp, nil
}
