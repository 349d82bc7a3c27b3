package events

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	defaultBatchSize   = 50
	defaultMaxAttempts = 10
)

// Результаты обработки записи outbox для метрик
const (
	outboxResultDone    = "done"
	outboxResultRetry   = "retry"
	outboxResultSkipped = "skipped"
)

// Options параметры синхронизации
type Options struct {
	BatchSize   int // Сколько записей outbox обрабатывается за проход
	MaxAttempts int // После скольких неудач запись переводится в failed
}

// ReconcileResult итог прохода сверки
type ReconcileResult struct {
	Processed int
	Retried   int
	Skipped   int
	Pending   int
}

func validateDraft(d domain.EventDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(d.Title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}
	if utf8.RuneCountInString(d.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	if d.StartTime.IsZero() || d.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrInvalidInput)
	}
	if !d.EndTime.After(d.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	if d.Status != "" && !d.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, d.Status)
	}
	return validateAttendees(d.Attendees)
}

func validateChanges(c domain.EventChanges) error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if c.Title != nil {
		if strings.TrimSpace(*c.Title) == "" {
			return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		if utf8.RuneCountInString(*c.Title) > domain.MaxTitleLength {
			return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidInput, domain.MaxTitleLength)
		}
	}
	if c.Description != nil && utf8.RuneCountInString(*c.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	// одна граница сверяется с текущим событием в Update
	if c.StartTime != nil && c.EndTime != nil && !c.EndTime.After(*c.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	if c.Status != nil && !c.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *c.Status)
	}
	return validateAttendees(c.Attendees)
}

func validateAttendees(attendees []string) error {
	if len(attendees) > domain.MaxAttendees {
		return fmt.Errorf("%w: more than %d attendees", ErrInvalidInput, domain.MaxAttendees)
	}
	for _, a := range attendees {
		if _, err := mail.ParseAddress(a); err != nil {
			return fmt.Errorf("%w: invalid attendee email %q", ErrInvalidInput, a)
		}
	}
	return nil
}

// applyLocal переносит поля, принадлежащие зеркалу, из локальной записи в событие провайдера
func applyLocal(remote, local *domain.CalendarEvent) {
	remote.ID = local.ID
	remote.Status = local.Status
	remote.CreatedAt = local.CreatedAt
	remote.UpdatedAt = local.UpdatedAt
}
