package booking_wizard

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Сообщения, показываемые посетителю рядом с формой
const (
	msgDatePast          = "Нельзя выбрать прошедшую дату"
	msgDateTooFar        = "Запись доступна не более чем на %d дней вперед"
	msgDateRequired      = "Выберите дату"
	msgSlotUnavailable   = "Это время недоступно, выберите другое"
	msgSlotLoading       = "Свободное время еще загружается"
	msgNameRequired      = "Укажите имя"
	msgNameTooLong       = "Имя слишком длинное"
	msgEmailRequired     = "Укажите email"
	msgEmailInvalid      = "Некорректный email"
	msgNotesTooLong      = "Комментарий слишком длинный"
	msgSelectionRequired = "Выберите дату и время"
)

// inlineError ошибка шага мастера с сообщением для посетителя
type inlineError struct {
	kind    error
	reason  string
	message string
}

func (e *inlineError) Error() string { return fmt.Sprintf("%v: %s", e.kind, e.reason) }
func (e *inlineError) Unwrap() error { return e.kind }

func inline(kind error, message, reason string) *inlineError {
	return &inlineError{kind: kind, reason: reason, message: message}
}

// InlineMessage возвращает сообщение для посетителя, если ошибка его содержит
func InlineMessage(err error) (string, bool) {
	var ie *inlineError
	if errors.As(err, &ie) {
		return ie.message, true
	}
	return "", false
}

// Transition применяет событие к сессии и возвращает новую сессию.
// Функция чистая: входная сессия не меняется.
//
// ErrInvalidTransition означает, что событие на текущем шаге недопустимо, и
// возвращается исходная сессия. ErrValidation, ErrDateDisabled и ErrSlotUnavailable
// возвращаются вместе с сессией, в которой заполнено сообщение Error.
func Transition(s domain.BookingSession, ev Event) (domain.BookingSession, error) {
	next := s.Clone()

	switch e := ev.(type) {
	case DateChosen:
		if s.Step != domain.StepDateSelection && s.Step != domain.StepTimeSelection {
			return s, invalid(s, ev)
		}
		if err := checkDate(e.Window); err != nil {
			return withError(next, err)
		}
		if s.SelectedDate == nil || !sameDay(*s.SelectedDate, e.Date) {
			// Другая дата: сбрасывается только выбранное время
			next.SelectedSlot = nil
			next.Slots = nil
		}
		date := e.Date
		next.SelectedDate = &date
		return requestAvailability(next), nil

	case AvailabilityLoaded:
		if e.Token != s.AvailabilityToken || !s.LoadingAvailability {
			// Устаревший ответ: применяется только ответ на последний запрос
			return s, nil
		}
		next.LoadingAvailability = false
		if e.Error != "" {
			next.Slots = nil
			next.Error = e.Error
			return next, nil
		}
		next.Slots = append([]domain.SlotAvailability(nil), e.Slots...)
		next.Error = ""
		return next, nil

	case SlotChosen:
		if s.Step != domain.StepTimeSelection {
			return s, invalid(s, ev)
		}
		if err := checkSlot(s, e.Slot); err != nil {
			return withError(next, err)
		}
		slot := e.Slot
		next.SelectedSlot = &slot
		next.Step = domain.StepContactInfo
		next.Error = ""
		return next, nil

	case Back:
		switch s.Step {
		case domain.StepContactInfo:
			if s.Submitting {
				return s, invalid(s, ev)
			}
			next.Step = domain.StepTimeSelection
		case domain.StepTimeSelection:
			next.Step = domain.StepDateSelection
		default:
			return s, invalid(s, ev)
		}
		next.Error = ""
		return next, nil

	case Forward:
		switch s.Step {
		case domain.StepDateSelection:
			if s.SelectedDate == nil {
				return withError(next, inline(ErrValidation, msgDateRequired, "date is not selected"))
			}
			return requestAvailability(next), nil
		case domain.StepTimeSelection:
			if s.SelectedSlot == nil {
				return withError(next, inline(ErrValidation, msgSelectionRequired, "slot is not selected"))
			}
			if err := checkSlot(s, *s.SelectedSlot); err != nil {
				return withError(next, err)
			}
			next.Step = domain.StepContactInfo
			next.Error = ""
			return next, nil
		}
		return s, invalid(s, ev)

	case ContactUpdated:
		if s.Step != domain.StepContactInfo || s.Submitting {
			return s, invalid(s, ev)
		}
		next.Contact = e.Contact
		return next, nil

	case SubmitRequested:
		if s.Step != domain.StepContactInfo || s.Submitting {
			return s, invalid(s, ev)
		}
		next.Contact = normalizeContact(e.Contact)
		if err := validateSubmission(next); err != nil {
			return withError(next, err)
		}
		next.Submitting = true
		next.Error = ""
		return next, nil

	case SubmitSucceeded:
		if s.Step != domain.StepContactInfo || !s.Submitting || e.Event == nil {
			return s, invalid(s, ev)
		}
		event := *e.Event
		next.ConfirmedEvent = &event
		next.Submitting = false
		next.Step = domain.StepConfirmation
		next.Error = ""
		return next, nil

	case SubmitFailed:
		if s.Step != domain.StepContactInfo || !s.Submitting {
			return s, invalid(s, ev)
		}
		next.Submitting = false
		next.Error = e.Message
		return next, nil

	case Restart:
		if s.Step != domain.StepConfirmation {
			return s, invalid(s, ev)
		}
		return domain.BookingSession{
			ID:       s.ID,
			Step:     domain.StepDateSelection,
			Timezone: s.Timezone,
			// Токен не сбрасывается: ответы, выпущенные до рестарта, остаются устаревшими
			AvailabilityToken: s.AvailabilityToken,
			CreatedAt:         s.CreatedAt,
			UpdatedAt:         s.UpdatedAt,
		}, nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

// requestAvailability переводит сессию на выбор времени и выпускает новый токен
func requestAvailability(s domain.BookingSession) domain.BookingSession {
	s.Step = domain.StepTimeSelection
	s.AvailabilityToken++
	s.LoadingAvailability = true
	s.Error = ""
	return s
}

func withError(s domain.BookingSession, err *inlineError) (domain.BookingSession, error) {
	s.Error = err.message
	return s, err
}

func checkDate(window domain.DateWindowCheck) *inlineError {
	switch window {
	case domain.DateInPast:
		return inline(ErrDateDisabled, msgDatePast, "date is in the past")
	case domain.DateBeyondHorizon:
		return inline(ErrDateDisabled, fmt.Sprintf(msgDateTooFar, domain.BookingHorizonDays), "date is beyond the booking horizon")
	}
	return nil
}

func checkSlot(s domain.BookingSession, slot domain.TimeSlot) *inlineError {
	if s.LoadingAvailability {
		return inline(ErrSlotUnavailable, msgSlotLoading, "availability is still loading")
	}
	state, ok := s.SlotState(slot)
	if !ok {
		return inline(ErrSlotUnavailable, msgSlotUnavailable, slot.String()+" is not in the schedule")
	}
	if state.Disabled {
		return inline(ErrSlotUnavailable, msgSlotUnavailable, slot.String()+" is disabled")
	}
	return nil
}

func normalizeContact(c domain.ContactInfo) domain.ContactInfo {
	return domain.ContactInfo{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Notes: strings.TrimSpace(c.Notes),
	}
}

func validateSubmission(s domain.BookingSession) *inlineError {
	c := s.Contact

	if c.Name == "" {
		return inline(ErrValidation, msgNameRequired, "name is required")
	}
	if utf8.RuneCountInString(c.Name) > domain.MaxVisitorNameLength {
		return inline(ErrValidation, msgNameTooLong, "name is too long")
	}
	if c.Email == "" {
		return inline(ErrValidation, msgEmailRequired, "email is required")
	}
	if addr, err := mail.ParseAddress(c.Email); err != nil || addr.Address != c.Email {
		return inline(ErrValidation, msgEmailInvalid, "email is malformed")
	}
	if utf8.RuneCountInString(c.Notes) > domain.MaxNotesLength {
		return inline(ErrValidation, msgNotesTooLong, "notes are too long")
	}
	if s.SelectedDate == nil || s.SelectedSlot == nil {
		return inline(ErrValidation, msgSelectionRequired, "date and time are required")
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func invalid(s domain.BookingSession, ev Event) error {
	return fmt.Errorf("%w: %s on step %s", ErrInvalidTransition, ev.eventName(), s.Step)
}
