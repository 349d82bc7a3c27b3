package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CalculateDisabled возвращает множество недоступных слотов на дату date.
//
// Слот недоступен, если его окно [start, start+30m) пересекается с любым занятым
// интервалом (полуоткрытые интервалы, касание границ не пересечение). Частичное
// пересечение отключает слот целиком. Для сегодняшней даты дополнительно отключаются
// слоты, начало которых <= now + 15 минут. Для будущих дат время не учитывается.
func CalculateDisabled(
	date time.Time,
	slots []domain.TimeSlot,
	busy []domain.BusyInterval,
	now time.Time,
	loc *time.Location,
) map[domain.TimeSlot]struct{} {
	disabled := make(map[domain.TimeSlot]struct{})

	today := domain.IsSameDate(date, now, loc)
	cutoff := now.Add(domain.LeadTimeBuffer)

	for _, slot := range slots {
		start, end := slot.Window(date, loc, domain.SlotDuration)

		// граница включительная: слот, начинающийся ровно в now+15m, недоступен
		if today && !start.After(cutoff) {
			disabled[slot] = struct{}{}
			continue
		}

		for _, b := range busy {
			if !b.IsValid() {
				continue
			}
			if b.Overlaps(start, end) {
				disabled[slot] = struct{}{}
				break
			}
		}
	}

	return disabled
}

// buildAvailability раскладывает слоты с признаком доступности, порядок сохраняется
func buildAvailability(slots []domain.TimeSlot, disabled map[domain.TimeSlot]struct{}) []domain.SlotAvailability {
	result := make([]domain.SlotAvailability, len(slots))
	for i, slot := range slots {
		_, off := disabled[slot]
		result[i] = domain.SlotAvailability{StartTime: slot, Disabled: off}
	}
	return result
}
