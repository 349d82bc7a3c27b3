package booking_wizard

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// StartRequest модель запроса на создание сессии
type StartRequest struct {
	Timezone string // IANA пояс посетителя, пусто = пояс по умолчанию
}

// Options параметры мастера
type Options struct {
	AdminEmail      string
	DefaultLocation *time.Location
	HorizonDays     int
}

// Сообщения об ошибках внешних вызовов
const (
	msgAvailabilityFailed = "Не удалось загрузить свободное время, попробуйте позже"
	msgSubmitFailed       = "Не удалось создать запись, попробуйте еще раз"
)

const eventTitlePrefix = "Meeting with "

// buildDraft собирает черновик события из заполненной сессии
func buildDraft(s domain.BookingSession, loc *time.Location, adminEmail string) domain.EventDraft {
	start, end := s.SelectedSlot.Window(*s.SelectedDate, loc, domain.SlotDuration)

	var description string
	if s.Contact.Notes != "" {
		description = s.Contact.Notes + "\n\n"
	}
	description += "Contact: " + s.Contact.Name + " <" + s.Contact.Email + ">"

	attendees := []string{s.Contact.Email}
	if adminEmail != "" && adminEmail != s.Contact.Email {
		attendees = append(attendees, adminEmail)
	}

	return domain.EventDraft{
		Title:              eventTitlePrefix + s.Contact.Name,
		Description:        description,
		StartTime:          start,
		EndTime:            end,
		Attendees:          attendees,
		Status:             domain.EventStatusScheduled,
		RequestMeetingLink: true,
	}
}
