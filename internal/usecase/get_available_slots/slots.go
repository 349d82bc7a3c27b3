package get_available_slots

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const minutesPerDay = 24 * 60

// GenerateTimeSlots генерирует слоты от open до close (не включая) с шагом granularityMinutes.
// Функция чистая: одинаковые входные данные дают одинаковую последовательность.
func GenerateTimeSlots(open, close float64, granularityMinutes int) ([]domain.TimeSlot, error) {
	if granularityMinutes <= 0 {
		return nil, fmt.Errorf("%w: granularity must be positive, got %d", ErrInvalidSchedule, granularityMinutes)
	}

	openMin := int(math.Round(open * 60))
	closeMin := int(math.Round(close * 60))

	if openMin < 0 || closeMin > minutesPerDay {
		return nil, fmt.Errorf("%w: window %v-%v is outside of 0-24", ErrInvalidSchedule, open, close)
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("%w: close %v must be after open %v", ErrInvalidSchedule, close, open)
	}

	slots := make([]domain.TimeSlot, 0, (closeMin-openMin+granularityMinutes-1)/granularityMinutes)
	for m := openMin; m < closeMin; m += granularityMinutes {
		slots = append(slots, domain.TimeSlot(float64(m)/60))
	}

	return slots, nil
}

// ScheduleSlots склеивает слоты всех окон таблицы рабочих часов.
// Окна должны идти по возрастанию и не пересекаться: перерыв задается таблицей.
func ScheduleSlots(hours domain.BusinessHours) ([]domain.TimeSlot, error) {
	if hours.IsEmpty() {
		return nil, fmt.Errorf("%w: no opening windows", ErrInvalidSchedule)
	}

	all := make([]domain.TimeSlot, 0)
	prevClose := math.Inf(-1)

	for i, w := range hours.Windows {
		if w.Open < prevClose {
			return nil, fmt.Errorf("%w: window #%d (%v-%v) overlaps or precedes the previous one",
				ErrInvalidSchedule, i, w.Open, w.Close)
		}

		slots, err := GenerateTimeSlots(w.Open, w.Close, hours.GranularityMinutes)
		if err != nil {
			return nil, err
		}

		all = append(all, slots...)
		prevClose = w.Close
	}

	return all, nil
}
