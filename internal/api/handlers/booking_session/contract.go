package booking_session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingWizard "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_wizard"
)

type BookingWizardUseCase interface {
	Start(ctx context.Context, req bookingWizard.StartRequest) (*domain.BookingSession, error)
	Get(ctx context.Context, id string) (*domain.BookingSession, error)
	ChooseDate(ctx context.Context, id string, date time.Time) (*domain.BookingSession, error)
	ChooseSlot(ctx context.Context, id string, slot domain.TimeSlot) (*domain.BookingSession, error)
	Back(ctx context.Context, id string) (*domain.BookingSession, error)
	Next(ctx context.Context, id string) (*domain.BookingSession, error)
	UpdateContact(ctx context.Context, id string, contact domain.ContactInfo) (*domain.BookingSession, error)
	Submit(ctx context.Context, id string, contact domain.ContactInfo) (*domain.BookingSession, error)
	Restart(ctx context.Context, id string) (*domain.BookingSession, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
