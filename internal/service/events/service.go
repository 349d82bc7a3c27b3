package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	eventRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/event"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
	calendarClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/googlecalendar"
)

// Service синхронизирует события между календарем провайдера и локальным зеркалом.
// Провайдер источник истины о существовании и времени события, зеркало о бизнес-статусе.
type Service struct {
	client     CalendarClient
	eventRepo  EventRepository
	outboxRepo OutboxRepository
	txManager  TransactionManager
	recorder   OutboxRecorder
	opts       Options
	logger     Logger
}

// NewService создает новый экземпляр сервиса синхронизации. recorder может быть nil.
func NewService(
	client CalendarClient,
	eventRepo EventRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	recorder OutboxRecorder,
	opts Options,
	logger Logger,
) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &Service{
		client:     client,
		eventRepo:  eventRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		recorder:   recorder,
		opts:       opts,
		logger:     logger,
	}
}

// Create создает событие у провайдера, затем запись в зеркале.
// Если запись в зеркало не удалась, она откладывается в outbox, а событие
// возвращается вместе с ErrPartialSync.
func (s *Service) Create(ctx context.Context, draft domain.EventDraft) (*domain.CalendarEvent, error) {
	// 1. Валидация
	if err := validateDraft(draft); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	if draft.Status == "" {
		draft.Status = domain.EventStatusScheduled
	}

	s.logger.Info("Create: creating event %q at %s - %s, meet=%t",
		draft.Title, draft.StartTime.Format(time.RFC3339), draft.EndTime.Format(time.RFC3339), draft.RequestMeetingLink)

	// 2. Событие у провайдера
	remote, err := s.client.CreateEvent(ctx, draft)
	if err != nil {
		s.logger.Error("Create: provider rejected event: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRemoteCreate, err)
	}
	remote.Status = draft.Status

	// 3. Запись в зеркало
	saved, err := s.eventRepo.Upsert(ctx, remote)
	if err != nil {
		return remote, s.deferMirror(ctx, domain.SyncOpMirrorUpsert, remote.ExternalEventID, remote.Status, err)
	}

	s.logger.Info("Create: event %s created, local id=%d", saved.ExternalEventID, saved.ID)
	return saved, nil
}

// Update обновляет событие у провайдера и поля зеркала.
// Изменение только статуса к провайдеру не обращается.
func (s *Service) Update(ctx context.Context, externalID string, changes domain.EventChanges) (*domain.CalendarEvent, error) {
	// 1. Валидация
	if externalID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if err := validateChanges(changes); err != nil {
		s.logger.Warn("Update: validation failed for event %s: %v", externalID, err)
		return nil, err
	}

	// 2. Текущая локальная запись, до любых внешних вызовов
	local, err := s.eventRepo.GetByExternalID(ctx, externalID)
	if err != nil && !errors.Is(err, eventRepo.ErrEventNotFound) {
		s.logger.Error("Update: failed to read mirror for event %s: %v", externalID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 3. Порядок границ, если меняется только одна из них
	if err := s.checkBoundsOrder(ctx, externalID, changes); err != nil {
		return nil, err
	}

	// 4. Событие у провайдера
	var remote *domain.CalendarEvent
	if changes.TouchesRemote() {
		remote, err = s.client.UpdateEvent(ctx, externalID, changes)
	} else {
		remote, err = s.client.GetEvent(ctx, externalID)
	}
	if err != nil {
		if errors.Is(err, calendarClient.ErrEventNotFound) {
			s.logger.Warn("Update: event %s not found in calendar", externalID)
			return nil, ErrEventNotFound
		}
		s.logger.Error("Update: provider failed for event %s: %v", externalID, err)
		return nil, fmt.Errorf("%w: %v", ErrRemoteUpdate, err)
	}

	// 5. Слияние: статус из изменений, иначе из зеркала
	status := domain.EventStatusScheduled
	if local != nil {
		applyLocal(remote, local)
		status = local.Status
	}
	if changes.Status != nil {
		status = *changes.Status
	}
	remote.Status = status

	// 6. Запись в зеркало
	var saved *domain.CalendarEvent
	err = s.writeMirror(ctx, externalID, func(ctx context.Context) error {
		var err error
		saved, err = s.eventRepo.Upsert(ctx, remote)
		return err
	})
	if err != nil {
		return remote, s.deferMirror(ctx, domain.SyncOpMirrorUpsert, externalID, status, err)
	}

	s.logger.Info("Update: event %s updated, status=%s", externalID, saved.Status)
	return saved, nil
}

// Delete удаляет событие у провайдера, затем из зеркала.
// Событие, уже удаленное у провайдера, считается удаленным.
func (s *Service) Delete(ctx context.Context, externalID string) error {
	if externalID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	// 1. Удаление у провайдера
	remoteGone := false
	if err := s.client.DeleteEvent(ctx, externalID); err != nil {
		if !errors.Is(err, calendarClient.ErrEventNotFound) {
			s.logger.Error("Delete: provider failed for event %s: %v", externalID, err)
			return fmt.Errorf("%w: %v", ErrRemoteDelete, err)
		}
		s.logger.Info("Delete: event %s already absent in calendar", externalID)
		remoteGone = true
	}

	// 2. Удаление из зеркала
	mirrorMissing := false
	err := s.writeMirror(ctx, externalID, func(ctx context.Context) error {
		err := s.eventRepo.DeleteByExternalID(ctx, externalID)
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			mirrorMissing = true
			return nil
		}
		return err
	})
	if err != nil {
		return s.deferMirror(ctx, domain.SyncOpMirrorDelete, externalID, "", err)
	}
	if mirrorMissing && remoteGone {
		s.logger.Warn("Delete: event %s not found anywhere", externalID)
		return ErrEventNotFound
	}

	s.logger.Info("Delete: event %s deleted", externalID)
	return nil
}

// List возвращает события дня из календаря провайдера, дополняя их статусом из зеркала.
// Если зеркало недоступно, события возвращаются без локальных полей.
// Если недоступен провайдер, возвращаются записи зеркала вместе с ErrMirrorFallback.
func (s *Service) List(ctx context.Context, from, to time.Time) ([]*domain.CalendarEvent, error) {
	s.logger.Info("List: fetching events %s - %s", from.Format(time.RFC3339), to.Format(time.RFC3339))

	// 1. События у провайдера
	events, err := s.client.ListEvents(ctx, from, to)
	if err != nil {
		s.logger.Error("List: provider failed: %v", err)
		return s.listMirror(ctx, from, to, err)
	}
	if len(events) == 0 {
		return events, nil
	}

	// 2. Локальные поля из зеркала
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ExternalEventID)
	}

	locals, err := s.eventRepo.GetByExternalIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("List: mirror unavailable, returning provider data only: %v", err)
		return events, nil
	}

	unmirrored := 0
	for _, ev := range events {
		if local, ok := locals[ev.ExternalEventID]; ok {
			applyLocal(ev, local)
		} else {
			unmirrored++
		}
	}
	if unmirrored > 0 {
		s.logger.Info("List: %d of %d events have no local mirror", unmirrored, len(events))
	}

	return events, nil
}

// listMirror отдает записи зеркала за период, когда провайдер недоступен
func (s *Service) listMirror(ctx context.Context, from, to time.Time, cause error) ([]*domain.CalendarEvent, error) {
	events, err := s.eventRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("List: mirror fallback failed: %v", err)
		return nil, fmt.Errorf("%w: %v (mirror unavailable: %v)", ErrRemoteList, cause, err)
	}

	s.logger.Warn("List: returning %d events from local mirror", len(events))
	return events, fmt.Errorf("%w: %v", ErrMirrorFallback, cause)
}

// checkBoundsOrder проверяет, что изменение одной границы не ставит конец раньше начала.
// Вторая граница берется у провайдера, он источник истины о времени события.
func (s *Service) checkBoundsOrder(ctx context.Context, externalID string, changes domain.EventChanges) error {
	if (changes.StartTime == nil) == (changes.EndTime == nil) {
		return nil
	}

	current, err := s.client.GetEvent(ctx, externalID)
	if err != nil {
		if errors.Is(err, calendarClient.ErrEventNotFound) {
			s.logger.Warn("Update: event %s not found in calendar", externalID)
			return ErrEventNotFound
		}
		s.logger.Error("Update: provider failed to read event %s: %v", externalID, err)
		return fmt.Errorf("%w: %v", ErrRemoteUpdate, err)
	}

	start, end := current.StartTime, current.EndTime
	if changes.StartTime != nil {
		start = *changes.StartTime
	}
	if changes.EndTime != nil {
		end = *changes.EndTime
	}
	if !end.After(start) {
		s.logger.Warn("Update: event %s would end at %s before start %s",
			externalID, end.Format(time.RFC3339), start.Format(time.RFC3339))
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	return nil
}

// Reconcile повторяет отложенные записи в зеркало.
// Каждая запись обрабатывается в своей транзакции: изменение зеркала и отметка
// о выполнении фиксируются вместе. Повторная обработка безопасна.
func (s *Service) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	pending, err := s.outboxRepo.FetchPending(ctx, s.opts.BatchSize)
	if err != nil {
		s.logger.Error("Reconcile: failed to fetch outbox: %v", err)
		return nil, fmt.Errorf("%w: Reconcile - fetch outbox: %v", ErrInternal, err)
	}

	result := &ReconcileResult{}
	for _, candidate := range pending {
		if ctx.Err() != nil {
			break
		}

		outcome := s.replay(ctx, candidate.ID)
		switch outcome {
		case outboxResultDone:
			result.Processed++
		case outboxResultRetry:
			result.Retried++
		default:
			result.Skipped++
		}
		if s.recorder != nil {
			s.recorder.ObserveOutboxResult(outcome)
		}
	}

	count, err := s.outboxRepo.CountPending(ctx)
	if err != nil {
		s.logger.Warn("Reconcile: failed to count pending outbox entries: %v", err)
	} else {
		result.Pending = count
		if s.recorder != nil {
			s.recorder.SetOutboxPending(count)
		}
	}

	if len(pending) > 0 {
		s.logger.Info("Reconcile: processed=%d, retried=%d, skipped=%d, pending=%d",
			result.Processed, result.Retried, result.Skipped, result.Pending)
	}
	return result, nil
}

func (s *Service) replay(ctx context.Context, id int64) string {
	var op *domain.SyncOperation

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		op, err = s.outboxRepo.LockPending(ctx, id)
		if err != nil {
			return err
		}

		if err := s.applyOperation(ctx, op); err != nil {
			return err
		}

		return s.outboxRepo.MarkDone(ctx, op.ID)
	})

	switch {
	case err == nil:
		s.logger.Info("Reconcile: %s for event %s replayed", op.Operation, op.ExternalEventID)
		return outboxResultDone
	case errors.Is(err, outboxRepo.ErrOperationNotFound):
		// Уже обработана или заблокирована другим проходом
		return outboxResultSkipped
	}

	s.logger.Warn("Reconcile: outbox entry id=%d failed: %v", id, err)
	if markErr := s.outboxRepo.MarkAttemptFailed(ctx, id, err.Error(), s.opts.MaxAttempts); markErr != nil {
		s.logger.Error("Reconcile: failed to record attempt for outbox entry id=%d: %v", id, markErr)
	}
	return outboxResultRetry
}

// applyOperation приводит зеркало к текущему состоянию провайдера
func (s *Service) applyOperation(ctx context.Context, op *domain.SyncOperation) error {
	switch op.Operation {
	case domain.SyncOpMirrorUpsert:
		remote, err := s.client.GetEvent(ctx, op.ExternalEventID)
		if errors.Is(err, calendarClient.ErrEventNotFound) {
			// У провайдера события уже нет: зеркало должно его тоже не иметь
			return s.deleteMirror(ctx, op.ExternalEventID)
		}
		if err != nil {
			return fmt.Errorf("get remote event: %w", err)
		}

		remote.Status = op.LocalStatus
		if remote.Status == "" {
			remote.Status = domain.EventStatusScheduled
		}
		if _, err := s.eventRepo.Upsert(ctx, remote); err != nil {
			return fmt.Errorf("upsert mirror: %w", err)
		}
		return nil

	case domain.SyncOpMirrorDelete:
		return s.deleteMirror(ctx, op.ExternalEventID)
	}

	return fmt.Errorf("unknown outbox operation %q", op.Operation)
}

func (s *Service) deleteMirror(ctx context.Context, externalID string) error {
	err := s.eventRepo.DeleteByExternalID(ctx, externalID)
	if err != nil && !errors.Is(err, eventRepo.ErrEventNotFound) {
		return fmt.Errorf("delete mirror: %w", err)
	}
	return nil
}

// writeMirror выполняет прямую запись в зеркало в одной транзакции с закрытием
// ожидающих записей outbox этого события. Более старая запись outbox иначе
// перезаписала бы при повторе уже сохраненное состояние.
func (s *Service) writeMirror(ctx context.Context, externalID string, write func(ctx context.Context) error) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		superseded, err := s.outboxRepo.SupersedePending(ctx, externalID)
		if err != nil {
			return fmt.Errorf("supersede outbox: %w", err)
		}
		if err := write(ctx); err != nil {
			return err
		}
		if superseded > 0 {
			s.logger.Info("mirror write for event %s superseded %d pending outbox entries", externalID, superseded)
		}
		return nil
	})
}

// deferMirror откладывает запись в зеркало в outbox и возвращает ErrPartialSync.
// Если не удалась и запись в outbox, расхождение остается до ручной сверки.
func (s *Service) deferMirror(
	ctx context.Context,
	op domain.SyncOperationType,
	externalID string,
	status domain.EventStatus,
	cause error,
) error {
	s.logger.Error("%s: mirror write failed for event %s, deferring to outbox: %v", op, externalID, cause)

	lastError := cause.Error()
	_, err := s.outboxRepo.Enqueue(ctx, &domain.SyncOperation{
		ExternalEventID: externalID,
		Operation:       op,
		LocalStatus:     status,
		LastError:       &lastError,
	})
	if err != nil {
		s.logger.Error("%s: failed to enqueue outbox entry for event %s, manual resync required: %v", op, externalID, err)
		return fmt.Errorf("%w: %v (outbox unavailable: %v)", ErrPartialSync, cause, err)
	}

	return fmt.Errorf("%w: %v", ErrPartialSync, cause)
}
