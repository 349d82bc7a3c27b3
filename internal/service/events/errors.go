package events

import "errors"

var (
	// ErrRemoteCreate возвращается, когда событие не создано у провайдера; локальная запись не пишется
	ErrRemoteCreate = errors.New("failed to create event in calendar")

	// ErrRemoteUpdate возвращается, когда событие не обновлено у провайдера
	ErrRemoteUpdate = errors.New("failed to update event in calendar")

	// ErrRemoteDelete возвращается, когда событие не удалено у провайдера
	ErrRemoteDelete = errors.New("failed to delete event in calendar")

	// ErrRemoteList возвращается, когда не удалось получить события дня
	ErrRemoteList = errors.New("failed to list calendar events")

	// ErrMirrorFallback возвращается вместе с событиями из зеркала, когда провайдер
	// недоступен. Такой список может не совпадать с календарем
	ErrMirrorFallback = errors.New("calendar unavailable, local mirror listed")

	// ErrPartialSync возвращается вместе с результатом, когда у провайдера операция
	// выполнена, а запись в зеркало отложена в outbox
	ErrPartialSync = errors.New("calendar updated, local mirror deferred")

	// ErrEventNotFound возвращается, когда событие не найдено ни у провайдера, ни в зеркале
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
