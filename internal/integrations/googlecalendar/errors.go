package googlecalendar

import "errors"

var (
	// ErrEventNotFound возвращается, когда событие отсутствует в календаре (или уже удалено)
	ErrEventNotFound = errors.New("googlecalendar client: event not found")

	// ErrUnauthorized возвращается, когда токен доступа отклонен провайдером
	ErrUnauthorized = errors.New("googlecalendar client: unauthorized")

	// ErrInternal возвращается при внутренних ошибках клиента (сеть, построение запроса)
	ErrInternal = errors.New("googlecalendar client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("googlecalendar client: invalid response")

	// ErrAvailabilityQuery возвращается резолвером занятости при отключенной fail-open политике
	ErrAvailabilityQuery = errors.New("googlecalendar: availability query failed")
)
