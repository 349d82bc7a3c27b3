package domain

import "time"

// DateWindowCheck is the result of checking a date against the booking horizon
type DateWindowCheck int

const (
	DateInWindow DateWindowCheck = iota
	DateInPast
	DateBeyondHorizon
)

// DateOnly returns midnight of the calendar day of t as seen in loc
func DateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayBounds returns [midnight, next midnight) of the calendar date in loc.
// Only year, month and day of date are used, so DST days are 23 or 25 hours long.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// IsSameDate reports whether date (its year, month and day) is the current day of now in loc
func IsSameDate(date, now time.Time, loc *time.Location) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CheckDateWindow checks that date lies within [today, today+horizonDays] in loc
func CheckDateWindow(date, now time.Time, loc *time.Location, horizonDays int) DateWindowCheck {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	today := DateOnly(now, loc)

	if day.Before(today) {
		return DateInPast
	}
	if horizonDays > 0 && day.After(today.AddDate(0, 0, horizonDays)) {
		return DateBeyondHorizon
	}
	return DateInWindow
}
