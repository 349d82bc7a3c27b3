package booking_wizard

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Event входное событие конечного автомата мастера
type Event interface {
	eventName() string
}

// DateChosen посетитель выбрал дату. Window результат проверки даты по горизонту.
type DateChosen struct {
	Date   time.Time
	Window domain.DateWindowCheck
}

// AvailabilityLoaded результат запроса доступности, выпущенного с токеном Token.
// Непустой Error означает, что доступность получить не удалось.
type AvailabilityLoaded struct {
	Token uint64
	Slots []domain.SlotAvailability
	Error string
}

// SlotChosen посетитель выбрал слот
type SlotChosen struct {
	Slot domain.TimeSlot
}

// Back шаг назад, выбранные значения сохраняются
type Back struct{}

// Forward шаг вперед по уже сделанному выбору
type Forward struct{}

// ContactUpdated посетитель изменил контактные данные
type ContactUpdated struct {
	Contact domain.ContactInfo
}

// SubmitRequested посетитель отправил форму
type SubmitRequested struct {
	Contact domain.ContactInfo
}

// SubmitSucceeded событие создано в календаре
type SubmitSucceeded struct {
	Event *domain.CalendarEvent
}

// SubmitFailed создание события не удалось
type SubmitFailed struct {
	Message string
}

// Restart начать бронирование заново
type Restart struct{}

func (DateChosen) eventName() string         { return "date_chosen" }
func (AvailabilityLoaded) eventName() string { return "availability_loaded" }
func (SlotChosen) eventName() string         { return "slot_chosen" }
func (Back) eventName() string               { return "back" }
func (Forward) eventName() string            { return "forward" }
func (ContactUpdated) eventName() string     { return "contact_updated" }
func (SubmitRequested) eventName() string    { return "submit_requested" }
func (SubmitSucceeded) eventName() string    { return "submit_succeeded" }
func (SubmitFailed) eventName() string       { return "submit_failed" }
func (Restart) eventName() string            { return "restart" }
