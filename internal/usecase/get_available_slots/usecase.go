package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UseCase use case для получения слотов с признаком доступности
type UseCase struct {
	resolver     BusyResolver
	hours        domain.BusinessHours
	horizonDays  int
	defaultLoc   *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// resolver == nil означает, что доступ к календарю не настроен.
func NewUseCase(
	resolver BusyResolver,
	hours domain.BusinessHours,
	horizonDays int,
	defaultLoc *time.Location,
	logger Logger,
) *UseCase {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &UseCase{
		resolver:     resolver,
		hours:        hours,
		horizonDays:  horizonDays,
		defaultLoc:   defaultLoc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// IsConfigured false, если запросы доступности выполнять нельзя
func (uc *UseCase) IsConfigured() bool {
	return uc.resolver != nil
}

// CheckDate проверяет дату по горизонту бронирования без обращения к календарю
func (uc *UseCase) CheckDate(date time.Time, loc *time.Location) error {
	if loc == nil {
		loc = uc.defaultLoc
	}
	switch domain.CheckDateWindow(date, uc.timeProvider.Now(), loc, uc.horizonDays) {
	case domain.DateInPast:
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	case domain.DateBeyondHorizon:
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, uc.horizonDays)
	}
	return nil
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Без доступа к календарю никаких запросов не делаем
	if !uc.IsConfigured() {
		return nil, ErrNotConfigured
	}

	loc := req.Location
	if loc == nil {
		loc = uc.defaultLoc
	}
	date := req.Date
	uc.logger.Info("GetAvailableSlots: date=%s, tz=%s", date.Format(domain.DateFormat), loc.String())

	// 3. Проверка горизонта до любого внешнего вызова
	if err := uc.CheckDate(date, loc); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Сетка слотов из таблицы рабочих часов
	slots, err := ScheduleSlots(uc.hours)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	// 5. Занятость календаря на день
	dayStart, dayEnd := domain.DayBounds(date, loc)
	busy, err := uc.resolver.Resolve(ctx, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve busy intervals: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnavailable, err)
	}

	// 6. Вычисляем недоступные слоты
	disabled := CalculateDisabled(date, slots, busy, uc.timeProvider.Now(), loc)

	resp := &Response{
		Date:     dayStart,
		Location: loc,
		Slots:    buildAvailability(slots, disabled),
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d enabled, %d busy intervals) for date=%s",
		len(resp.Slots), resp.EnabledCount(), len(busy), date.Format(domain.DateFormat))

	return resp, nil
}
