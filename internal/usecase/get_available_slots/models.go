package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date     time.Time      // Дата (используются только год, месяц, день)
	Location *time.Location // Часовой пояс посетителя, nil = пояс по умолчанию
}

// Response модель ответа со списком слотов
type Response struct {
	Date     time.Time
	Location *time.Location
	Slots    []domain.SlotAvailability
}

// EnabledCount число доступных для выбора слотов
func (r *Response) EnabledCount() int {
	n := 0
	for _, s := range r.Slots {
		if !s.Disabled {
			n++
		}
	}
	return n
}
