package domain

import (
	"fmt"
	"math"
	"time"
)

// TimeSlot is a slot start expressed in decimal hours since midnight (9.5 = 09:30).
// Slots are generated, never stored, and always last SlotDurationMinutes.
type TimeSlot float64

// NewTimeSlot builds a slot from hours and minutes
func NewTimeSlot(hour, minute int) TimeSlot {
	return TimeSlot(float64(hour) + float64(minute)/60)
}

// ParseTimeSlot parses "HH:MM" into a TimeSlot
func ParseTimeSlot(s string) (TimeSlot, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time slot %q: %w", s, err)
	}
	return NewTimeSlot(t.Hour(), t.Minute()), nil
}

// Minutes returns the slot start as minutes since midnight
func (s TimeSlot) Minutes() int {
	return int(math.Round(float64(s) * 60))
}

// Hour returns the hour component of the slot start
func (s TimeSlot) Hour() int {
	return s.Minutes() / 60
}

// Minute returns the minute component of the slot start
func (s TimeSlot) Minute() int {
	return s.Minutes() % 60
}

// String formats the slot as "HH:MM"
func (s TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour(), s.Minute())
}

// On returns the concrete start instant of the slot on the given calendar date in loc.
// Only the year, month and day of date are used.
func (s TimeSlot) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, s.Hour(), s.Minute(), 0, 0, loc)
}

// Window returns the half-open interval [start, start+duration) of the slot on date
func (s TimeSlot) Window(date time.Time, loc *time.Location, duration time.Duration) (time.Time, time.Time) {
	start := s.On(date, loc)
	return start, start.Add(duration)
}

// SlotAvailability is a candidate slot together with its bookable state
type SlotAvailability struct {
	StartTime TimeSlot
	Disabled  bool
}
