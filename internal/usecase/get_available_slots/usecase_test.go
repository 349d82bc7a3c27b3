package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.BusyInterval, error) {
	args := m.Called(ctx, dayStart, dayEnd)
	busy, _ := args.Get(0).([]domain.BusyInterval)
	return busy, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var testNow = time.Date(2026, 10, 14, 14, 40, 0, 0, time.UTC)

func newTestUseCase(resolver BusyResolver) *UseCase {
	return NewUseCase(resolver, domain.DefaultBusinessHours, domain.BookingHorizonDays, time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime{now: testNow})
}

func TestUseCase_Execute_Today(t *testing.T) {
	resolver := new(mockResolver)
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	resolver.On("Resolve", mock.Anything, today, today.AddDate(0, 0, 1)).
		Return([]domain.BusyInterval{}, nil).Once()

	resp, err := newTestUseCase(resolver).Execute(context.Background(), &Request{Date: today})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 14)
	for _, s := range resp.Slots {
		// 14:40 + 15m: all slots up to 14:30 are gone, 15:00 onwards bookable
		assert.Equal(t, s.StartTime <= 14.5, s.Disabled, "slot %s", s.StartTime)
	}
	resolver.AssertExpectations(t)
}

func TestUseCase_Execute_BusyFutureDate(t *testing.T) {
	resolver := new(mockResolver)
	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	resolver.On("Resolve", mock.Anything, day, day.AddDate(0, 0, 1)).
		Return([]domain.BusyInterval{{Start: at(day, 15, 0), End: at(day, 16, 0)}}, nil).Once()

	resp, err := newTestUseCase(resolver).Execute(context.Background(), &Request{Date: day})

	require.NoError(t, err)
	states := map[domain.TimeSlot]bool{}
	for _, s := range resp.Slots {
		states[s.StartTime] = s.Disabled
	}
	assert.False(t, states[14.5])
	assert.True(t, states[15])
	assert.True(t, states[15.5])
	assert.False(t, states[16])
	assert.Equal(t, 12, resp.EnabledCount())
}

func TestUseCase_Execute_DateOutsideHorizon(t *testing.T) {
	resolver := new(mockResolver)
	uc := newTestUseCase(resolver)

	_, err := uc.Execute(context.Background(), &Request{Date: time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{Date: time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestUseCase_Execute_NotConfigured(t *testing.T) {
	_, err := newTestUseCase(nil).Execute(context.Background(), &Request{Date: testNow})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUseCase_Execute_ResolverFailure(t *testing.T) {
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("free/busy down")).Once()

	_, err := newTestUseCase(resolver).Execute(context.Background(), &Request{Date: testNow.AddDate(0, 0, 1)})
	assert.ErrorIs(t, err, ErrAvailabilityUnavailable)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	_, err := newTestUseCase(new(mockResolver)).Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
