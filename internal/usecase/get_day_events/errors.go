package get_day_events

import "errors"

var (
	// ErrNotConfigured возвращается, когда не настроен доступ к календарю
	ErrNotConfigured = errors.New("calendar is not configured")

	// ErrCalendarUnavailable возвращается, когда календарь провайдера не ответил
	ErrCalendarUnavailable = errors.New("calendar is temporarily unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
