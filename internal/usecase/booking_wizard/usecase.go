package booking_wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	sessionStore "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// UseCase мастер бронирования: хранит сессии, запускает расчет доступности и
// создание события. Переходы состояний выполняет Transition.
type UseCase struct {
	store        SessionStore
	availability AvailabilityProvider
	events       EventCreator
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	store SessionStore,
	availability AvailabilityProvider,
	events EventCreator,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.DefaultLocation == nil {
		opts.DefaultLocation = time.UTC
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = domain.BookingHorizonDays
	}
	return &UseCase{
		store:        store,
		availability: availability,
		events:       events,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Start создает новую сессию на шаге выбора даты
func (uc *UseCase) Start(ctx context.Context, req StartRequest) (*domain.BookingSession, error) {
	if !uc.availability.IsConfigured() {
		return nil, ErrNotConfigured
	}

	tz := req.Timezone
	if tz == "" {
		tz = uc.opts.DefaultLocation.String()
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, tz)
	}

	now := uc.timeProvider.Now()
	session := domain.BookingSession{
		ID:        uuid.NewString(),
		Step:      domain.StepDateSelection,
		Timezone:  tz,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.store.Create(ctx, session); err != nil {
		uc.logger.Error("BookingWizard.Start: failed to store session: %v", err)
		return nil, fmt.Errorf("%w: failed to store session: %v", ErrInternal, err)
	}

	uc.logger.Info("BookingWizard.Start: session=%s, tz=%s", session.ID, tz)
	return &session, nil
}

// Get возвращает текущее состояние сессии
func (uc *UseCase) Get(ctx context.Context, id string) (*domain.BookingSession, error) {
	session, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, uc.mapStoreError("Get", id, err)
	}
	return &session, nil
}

// ChooseDate выбирает дату и загружает доступность на нее
func (uc *UseCase) ChooseDate(ctx context.Context, id string, date time.Time) (*domain.BookingSession, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	session, err := uc.apply(ctx, id, func(s domain.BookingSession) Event {
		loc := uc.location(s)
		y, m, d := date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return DateChosen{Date: day, Window: domain.CheckDateWindow(day, uc.timeProvider.Now(), loc, uc.opts.HorizonDays)}
	})
	if err != nil {
		return session, err
	}

	return uc.loadAvailability(ctx, *session)
}

// ChooseSlot выбирает слот и переходит к контактным данным
func (uc *UseCase) ChooseSlot(ctx context.Context, id string, slot domain.TimeSlot) (*domain.BookingSession, error) {
	return uc.apply(ctx, id, func(domain.BookingSession) Event {
		return SlotChosen{Slot: slot}
	})
}

// Back возвращает на предыдущий шаг, выбор сохраняется
func (uc *UseCase) Back(ctx context.Context, id string) (*domain.BookingSession, error) {
	return uc.apply(ctx, id, func(domain.BookingSession) Event {
		return Back{}
	})
}

// Next переходит на следующий шаг по уже сделанному выбору.
// С шага даты доступность перезапрашивается, дата перепроверяется по горизонту.
func (uc *UseCase) Next(ctx context.Context, id string) (*domain.BookingSession, error) {
	session, err := uc.apply(ctx, id, func(s domain.BookingSession) Event {
		if s.Step == domain.StepDateSelection && s.SelectedDate != nil {
			loc := uc.location(s)
			return DateChosen{
				Date:   *s.SelectedDate,
				Window: domain.CheckDateWindow(*s.SelectedDate, uc.timeProvider.Now(), loc, uc.opts.HorizonDays),
			}
		}
		return Forward{}
	})
	if err != nil {
		return session, err
	}

	if session.LoadingAvailability {
		return uc.loadAvailability(ctx, *session)
	}
	return session, nil
}

// UpdateContact сохраняет черновик контактных данных
func (uc *UseCase) UpdateContact(ctx context.Context, id string, contact domain.ContactInfo) (*domain.BookingSession, error) {
	return uc.apply(ctx, id, func(domain.BookingSession) Event {
		return ContactUpdated{Contact: contact}
	})
}

// Submit валидирует форму и создает событие в календаре.
// При ошибке создания сессия остается на шаге контактов с сообщением об ошибке.
func (uc *UseCase) Submit(ctx context.Context, id string, contact domain.ContactInfo) (*domain.BookingSession, error) {
	// 1. Локальная валидация, до любых внешних вызовов
	session, err := uc.apply(ctx, id, func(domain.BookingSession) Event {
		return SubmitRequested{Contact: contact}
	})
	if err != nil {
		return session, err
	}

	// 2. Создание события
	draft := buildDraft(*session, uc.location(*session), uc.opts.AdminEmail)
	event, createErr := uc.events.Create(ctx, draft)

	// 3. Фиксация результата
	var result Event
	switch {
	case event != nil:
		if createErr != nil {
			uc.logger.Warn("BookingWizard.Submit: session=%s, event %s created with deferred mirror: %v",
				id, event.ExternalEventID, createErr)
		}
		result = SubmitSucceeded{Event: event}
	default:
		uc.logger.Error("BookingWizard.Submit: session=%s, failed to create event: %v", id, createErr)
		result = SubmitFailed{Message: msgSubmitFailed}
	}

	updated, err := uc.apply(ctx, id, func(domain.BookingSession) Event { return result })
	if err != nil {
		return updated, err
	}

	if event == nil {
		return updated, fmt.Errorf("%w: %v", ErrSubmitFailed, createErr)
	}

	uc.logger.Info("BookingWizard.Submit: session=%s confirmed, event=%s, start=%s",
		id, event.ExternalEventID, event.StartTime.Format(time.RFC3339))
	return updated, nil
}

// Restart начинает бронирование заново после подтверждения
func (uc *UseCase) Restart(ctx context.Context, id string) (*domain.BookingSession, error) {
	return uc.apply(ctx, id, func(domain.BookingSession) Event {
		return Restart{}
	})
}

// loadAvailability запрашивает доступность для последнего выпущенного токена.
// Ответ применяется переходом AvailabilityLoaded, устаревшие ответы отбрасываются.
func (uc *UseCase) loadAvailability(ctx context.Context, session domain.BookingSession) (*domain.BookingSession, error) {
	token := session.AvailabilityToken
	loaded := AvailabilityLoaded{Token: token}

	resp, err := uc.availability.Execute(ctx, &get_available_slots.Request{
		Date:     *session.SelectedDate,
		Location: uc.location(session),
	})
	switch {
	case err == nil:
		loaded.Slots = resp.Slots
	case errors.Is(err, get_available_slots.ErrNotConfigured):
		return nil, ErrNotConfigured
	default:
		uc.logger.Error("BookingWizard: session=%s, availability query failed: %v", session.ID, err)
		loaded.Error = msgAvailabilityFailed
	}

	updated, err := uc.apply(ctx, session.ID, func(domain.BookingSession) Event { return loaded })
	if err != nil {
		return updated, err
	}
	if updated.AvailabilityToken != token {
		uc.logger.Info("BookingWizard: session=%s, discarded stale availability token=%d (latest=%d)",
			session.ID, token, updated.AvailabilityToken)
	}
	return updated, nil
}

// apply атомарно применяет событие к сохраненной сессии.
// Ошибки валидации сохраняются в сессии и возвращаются вместе с ней.
func (uc *UseCase) apply(ctx context.Context, id string, build func(domain.BookingSession) Event) (*domain.BookingSession, error) {
	var transitionErr error

	session, err := uc.store.Update(ctx, id, func(s domain.BookingSession) (domain.BookingSession, error) {
		next, err := Transition(s, build(s))
		if err != nil && errors.Is(err, ErrInvalidTransition) {
			return s, err
		}
		transitionErr = err
		next.UpdatedAt = uc.timeProvider.Now()
		return next, nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			uc.logger.Warn("BookingWizard: session=%s: %v", id, err)
			return nil, err
		}
		return nil, uc.mapStoreError("apply", id, err)
	}

	if transitionErr != nil {
		uc.logger.Info("BookingWizard: session=%s, step=%s: %v", id, session.Step, transitionErr)
		return &session, transitionErr
	}
	return &session, nil
}

func (uc *UseCase) location(s domain.BookingSession) *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return uc.opts.DefaultLocation
}

func (uc *UseCase) mapStoreError(op, id string, err error) error {
	if errors.Is(err, sessionStore.ErrSessionNotFound) {
		uc.logger.Warn("BookingWizard.%s: session=%s not found", op, id)
		return ErrSessionNotFound
	}
	uc.logger.Error("BookingWizard.%s: session=%s: %v", op, id, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
