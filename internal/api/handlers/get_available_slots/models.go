package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	Timezone        string          `json:"timezone"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string  `json:"startTime"` // "HH:MM"
	Hour      float64 `json:"hour"`      // десятичный час, 9.5 = 09:30
	Disabled  bool    `json:"disabled"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			Hour:      float64(slot.StartTime),
			Disabled:  slot.Disabled,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		Timezone:        resp.Location.String(),
		DurationMinutes: domain.SlotDurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr, tz string, fallback *time.Location) (*getAvailableSlots.Request, error) {
	loc, err := handlers.ParseLocation(tz, fallback)
	if err != nil {
		return nil, err
	}

	date, err := handlers.ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:     date,
		Location: loc,
	}, nil
}
