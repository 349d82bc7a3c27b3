package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func keys(m map[domain.TimeSlot]struct{}) []domain.TimeSlot {
	out := make([]domain.TimeSlot, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestCalculateDisabled_BusyInterval(t *testing.T) {
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	future := today.AddDate(0, 0, 3)
	now := at(today, 10, 0)
	busy := []domain.BusyInterval{{Start: at(future, 15, 0), End: at(future, 16, 0)}}

	disabled := CalculateDisabled(future, []domain.TimeSlot{14.5, 15, 15.5, 16}, busy, now, time.UTC)

	assert.ElementsMatch(t, []domain.TimeSlot{15, 15.5}, keys(disabled))
}

func TestCalculateDisabled_TouchingEndpoints(t *testing.T) {
	future := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	busy := []domain.BusyInterval{{Start: at(future, 10, 0), End: at(future, 10, 30)}}

	disabled := CalculateDisabled(future, []domain.TimeSlot{9.5, 10, 10.5}, busy, now, time.UTC)

	assert.ElementsMatch(t, []domain.TimeSlot{10}, keys(disabled))
}

func TestCalculateDisabled_PartialOverlapDisablesWholeSlot(t *testing.T) {
	future := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	busy := []domain.BusyInterval{{Start: at(future, 11, 20), End: at(future, 11, 40)}}

	disabled := CalculateDisabled(future, []domain.TimeSlot{11, 11.5, 12}, busy, now, time.UTC)

	assert.ElementsMatch(t, []domain.TimeSlot{11, 11.5}, keys(disabled))
}

func TestCalculateDisabled_LeadTimeBuffer(t *testing.T) {
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	slots := []domain.TimeSlot{14, 14.5, 15, 15.5}

	// 14:40 + 15m = 14:55: 14:30 disabled, 15:00 enabled
	disabled := CalculateDisabled(today, slots, nil, at(today, 14, 40), time.UTC)
	assert.ElementsMatch(t, []domain.TimeSlot{14, 14.5}, keys(disabled))

	// 14:50 + 15m = 15:05: 15:00 starts inside the buffer
	disabled = CalculateDisabled(today, slots, nil, at(today, 14, 50), time.UTC)
	assert.ElementsMatch(t, []domain.TimeSlot{14, 14.5, 15}, keys(disabled))

	// 14:45 + 15m = 15:00: start equal to the cutoff is disabled
	disabled = CalculateDisabled(today, slots, nil, at(today, 14, 45), time.UTC)
	assert.ElementsMatch(t, []domain.TimeSlot{14, 14.5, 15}, keys(disabled))
}

func TestCalculateDisabled_FutureDateIgnoresClock(t *testing.T) {
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	slots, _ := ScheduleSlots(domain.DefaultBusinessHours)

	disabled := CalculateDisabled(tomorrow, slots, nil, at(today, 23, 59), time.UTC)
	assert.Empty(t, disabled)
}

func TestCalculateDisabled_Idempotent(t *testing.T) {
	future := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	slots, _ := ScheduleSlots(domain.DefaultBusinessHours)
	busy := []domain.BusyInterval{
		{Start: at(future, 9, 0), End: at(future, 10, 15)},
		{Start: at(future, 16, 0), End: at(future, 18, 0)},
	}

	first := CalculateDisabled(future, slots, busy, now, time.UTC)
	second := CalculateDisabled(future, slots, busy, now, time.UTC)
	assert.Equal(t, first, second)
}

func TestCalculateDisabled_IgnoresInvalidIntervals(t *testing.T) {
	future := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	busy := []domain.BusyInterval{{Start: at(future, 11, 0), End: at(future, 10, 0)}}

	disabled := CalculateDisabled(future, []domain.TimeSlot{10, 10.5}, busy, now, time.UTC)
	assert.Empty(t, disabled)
}

func TestCalculateDisabled_VisitorZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	future := time.Date(2026, 10, 20, 0, 0, 0, 0, ny)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	// 13:00-14:00 UTC = 09:00-10:00 EDT
	busy := []domain.BusyInterval{{
		Start: time.Date(2026, 10, 20, 13, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC),
	}}

	disabled := CalculateDisabled(future, []domain.TimeSlot{9, 9.5, 10}, busy, now, ny)
	assert.ElementsMatch(t, []domain.TimeSlot{9, 9.5}, keys(disabled))
}
