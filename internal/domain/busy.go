package domain

import "time"

// BusyInterval is an occupied range reported by the calendar provider.
// The engine only reads these values.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
// Touching endpoints do not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && b.Start.Before(end)
}

// IsValid returns true if the interval has a positive length
func (b BusyInterval) IsValid() bool {
	return !b.Start.IsZero() && !b.End.IsZero() && b.End.After(b.Start)
}
