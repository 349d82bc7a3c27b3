package booking_session

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// StartSessionRequest HTTP request model
type StartSessionRequest struct {
	Timezone string `json:"timezone"`
}

// ChooseDateRequest HTTP request model
type ChooseDateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// ChooseSlotRequest HTTP request model
type ChooseSlotRequest struct {
	StartTime string `json:"startTime"` // HH:MM
}

// ContactRequest HTTP request model для черновика и отправки формы
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (r ContactRequest) ToDomain() domain.ContactInfo {
	return domain.ContactInfo{
		Name:  r.Name,
		Email: r.Email,
		Notes: r.Notes,
	}
}

// SessionResponse HTTP response model
type SessionResponse struct {
	ID                  string                  `json:"id"`
	Step                string                  `json:"step"`
	Timezone            string                  `json:"timezone"`
	SelectedDate        *string                 `json:"selectedDate"`
	SelectedSlot        *string                 `json:"selectedSlot"`
	Contact             ContactRequest          `json:"contact"`
	Slots               []SessionSlot           `json:"slots"`
	AvailabilityToken   uint64                  `json:"availabilityToken"`
	LoadingAvailability bool                    `json:"loadingAvailability"`
	Submitting          bool                    `json:"submitting"`
	Error               string                  `json:"error,omitempty"`
	ConfirmedEvent      *handlers.EventResponse `json:"confirmedEvent,omitempty"`
	UpdatedAt           string                  `json:"updatedAt"`
}

// SessionSlot слот на шаге выбора времени
type SessionSlot struct {
	StartTime string `json:"startTime"`
	Disabled  bool   `json:"disabled"`
}

// FromDomain конвертирует сессию в HTTP response
func FromDomain(s *domain.BookingSession) *SessionResponse {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		loc = time.UTC
	}

	resp := &SessionResponse{
		ID:                  s.ID,
		Step:                string(s.Step),
		Timezone:            s.Timezone,
		Contact:             ContactRequest{Name: s.Contact.Name, Email: s.Contact.Email, Notes: s.Contact.Notes},
		Slots:               make([]SessionSlot, len(s.Slots)),
		AvailabilityToken:   s.AvailabilityToken,
		LoadingAvailability: s.LoadingAvailability,
		Submitting:          s.Submitting,
		Error:               s.Error,
		UpdatedAt:           s.UpdatedAt.Format(time.RFC3339),
	}

	if s.SelectedDate != nil {
		date := s.SelectedDate.Format(domain.DateFormat)
		resp.SelectedDate = &date
	}
	if s.SelectedSlot != nil {
		slot := s.SelectedSlot.String()
		resp.SelectedSlot = &slot
	}
	for i, slot := range s.Slots {
		resp.Slots[i] = SessionSlot{StartTime: slot.StartTime.String(), Disabled: slot.Disabled}
	}
	if s.ConfirmedEvent != nil {
		ev := handlers.FromDomainEvent(s.ConfirmedEvent, loc)
		resp.ConfirmedEvent = &ev
	}

	return resp
}
