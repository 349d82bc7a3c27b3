package domain

import "time"

// Booking engine constants
const (
	SlotDurationMinutes   = 30
	LeadTimeBufferMinutes = 15
	BookingHorizonDays    = 30

	SlotDuration   = SlotDurationMinutes * time.Minute
	LeadTimeBuffer = LeadTimeBufferMinutes * time.Minute
)

// Validation constants
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 4000
	MaxNotesLength       = 1000
	MaxVisitorNameLength = 200
	MaxAttendees         = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultBusinessHours is the public booking table: 9:00-12:00 and 13:00-17:00 in 30 minute steps.
// The lunch gap is part of the table, it is not computed.
var DefaultBusinessHours = BusinessHours{
	GranularityMinutes: SlotDurationMinutes,
	Windows: []HoursWindow{
		{Open: 9, Close: 12},
		{Open: 13, Close: 17},
	},
}
