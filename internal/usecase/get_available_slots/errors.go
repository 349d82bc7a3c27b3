package get_available_slots

import "errors"

var (
	// ErrNotConfigured возвращается, когда не настроен доступ к календарю
	ErrNotConfigured = errors.New("booking is not configured")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата за горизонтом бронирования
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidSchedule возвращается при некорректной таблице рабочих часов
	ErrInvalidSchedule = errors.New("invalid business hours schedule")

	// ErrAvailabilityUnavailable возвращается, когда занятость не получена и fail-open выключен
	ErrAvailabilityUnavailable = errors.New("availability is temporarily unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
