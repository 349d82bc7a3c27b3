package domain

import "time"

// WizardStep is a state of the booking wizard
type WizardStep string

const (
	StepDateSelection WizardStep = "date_selection"
	StepTimeSelection WizardStep = "time_selection"
	StepContactInfo   WizardStep = "contact_info"
	StepConfirmation  WizardStep = "confirmation"
)

// ContactInfo is what the visitor types on the contact step
type ContactInfo struct {
	Name  string
	Email string
	Notes string
}

// BookingSession is the transient state of one booking wizard.
// It is a value: transitions return a new session and leave the old one untouched.
type BookingSession struct {
	ID       string
	Step     WizardStep
	Timezone string

	SelectedDate *time.Time
	SelectedSlot *TimeSlot
	Contact      ContactInfo

	// Slots is the availability of SelectedDate as last applied
	Slots []SlotAvailability
	// AvailabilityToken is the latest issued availability request token,
	// responses carrying another token are stale
	AvailabilityToken   uint64
	LoadingAvailability bool

	Submitting bool
	// Error is the inline message shown on the current step
	Error string

	ConfirmedEvent *CalendarEvent

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the session
func (s BookingSession) Clone() BookingSession {
	c := s
	if s.SelectedDate != nil {
		d := *s.SelectedDate
		c.SelectedDate = &d
	}
	if s.SelectedSlot != nil {
		slot := *s.SelectedSlot
		c.SelectedSlot = &slot
	}
	if s.Slots != nil {
		c.Slots = make([]SlotAvailability, len(s.Slots))
		copy(c.Slots, s.Slots)
	}
	if s.ConfirmedEvent != nil {
		ev := *s.ConfirmedEvent
		ev.Attendees = append([]string(nil), s.ConfirmedEvent.Attendees...)
		c.ConfirmedEvent = &ev
	}
	return c
}

// SlotState returns the availability of slot in the applied availability list
func (s BookingSession) SlotState(slot TimeSlot) (SlotAvailability, bool) {
	for _, a := range s.Slots {
		if a.StartTime.Minutes() == slot.Minutes() {
			return a, true
		}
	}
	return SlotAvailability{}, false
}
