package booking_wizard

import "errors"

var (
	// ErrNotConfigured возвращается, когда не настроен доступ к календарю
	ErrNotConfigured = errors.New("booking is not configured")

	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrInvalidTransition возвращается, когда событие недопустимо на текущем шаге
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrDateDisabled возвращается, когда дата вне горизонта бронирования
	ErrDateDisabled = errors.New("date is not available for booking")

	// ErrSlotUnavailable возвращается, когда слот занят или отсутствует в сетке
	ErrSlotUnavailable = errors.New("time slot is not available")

	// ErrValidation возвращается, когда не заполнены обязательные поля
	ErrValidation = errors.New("booking validation failed")

	// ErrSubmitFailed возвращается, когда событие не удалось создать в календаре
	ErrSubmitFailed = errors.New("failed to create booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
