package get_day_events

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockSynchronizer struct {
	mock.Mock
}

func (m *mockSynchronizer) List(ctx context.Context, from, to time.Time) ([]*domain.CalendarEvent, error) {
	args := m.Called(ctx, from, to)
	list, _ := args.Get(0).([]*domain.CalendarEvent)
	return list, args.Error(1)
}

func (m *mockSynchronizer) Reconcile(ctx context.Context) (*events.ReconcileResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*events.ReconcileResult)
	return res, args.Error(1)
}

var day = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func TestUseCase_Execute(t *testing.T) {
	sync := new(mockSynchronizer)
	list := []*domain.CalendarEvent{{ExternalEventID: "evt-1"}}
	sync.On("List", mock.Anything, day, day.AddDate(0, 0, 1)).Return(list, nil).Once()

	resp, err := NewUseCase(sync, time.UTC, logger.NewNop()).Execute(context.Background(), &Request{Date: day})

	require.NoError(t, err)
	assert.Equal(t, list, resp.Events)
	assert.Nil(t, resp.Reconcile)
	sync.AssertNotCalled(t, "Reconcile", mock.Anything)
}

func TestUseCase_Execute_Resync(t *testing.T) {
	sync := new(mockSynchronizer)
	sync.On("Reconcile", mock.Anything).Return(&events.ReconcileResult{Processed: 2}, nil).Once()
	sync.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.CalendarEvent{}, nil).Once()

	resp, err := NewUseCase(sync, time.UTC, logger.NewNop()).
		Execute(context.Background(), &Request{Date: day, Resync: true})

	require.NoError(t, err)
	require.NotNil(t, resp.Reconcile)
	assert.Equal(t, 2, resp.Reconcile.Processed)
	sync.AssertExpectations(t)
}

func TestUseCase_Execute_ResyncFailureStillLists(t *testing.T) {
	sync := new(mockSynchronizer)
	sync.On("Reconcile", mock.Anything).Return(nil, errors.New("db down")).Once()
	sync.On("List", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.CalendarEvent{}, nil).Once()

	resp, err := NewUseCase(sync, time.UTC, logger.NewNop()).
		Execute(context.Background(), &Request{Date: day, Resync: true})

	require.NoError(t, err)
	assert.Nil(t, resp.Reconcile)
}

func TestUseCase_Execute_CalendarUnavailable(t *testing.T) {
	sync := new(mockSynchronizer)
	sync.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: timeout", events.ErrRemoteList)).Once()

	_, err := NewUseCase(sync, time.UTC, logger.NewNop()).Execute(context.Background(), &Request{Date: day})
	assert.ErrorIs(t, err, ErrCalendarUnavailable)
}

func TestUseCase_Execute_NotConfigured(t *testing.T) {
	_, err := NewUseCase(nil, time.UTC, logger.NewNop()).Execute(context.Background(), &Request{Date: day})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUseCase_Execute_VisitorZoneBounds(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skip("tzdata not available")
	}
	sync := new(mockSynchronizer)
	from := time.Date(2026, 10, 16, 0, 0, 0, 0, moscow)
	sync.On("List", mock.Anything, from, from.AddDate(0, 0, 1)).Return([]*domain.CalendarEvent{}, nil).Once()

	_, err = NewUseCase(sync, time.UTC, logger.NewNop()).
		Execute(context.Background(), &Request{Date: day, Location: moscow})

	require.NoError(t, err)
	sync.AssertExpectations(t)
}

func TestUseCase_Execute_MirrorFallback(t *testing.T) {
	sync := new(mockSynchronizer)
	list := []*domain.CalendarEvent{{ID: 3, ExternalEventID: "evt-1"}}
	sync.On("List", mock.Anything, mock.Anything, mock.Anything).
		Return(list, fmt.Errorf("%w: timeout", events.ErrMirrorFallback)).Once()

	resp, err := NewUseCase(sync, time.UTC, logger.NewNop()).Execute(context.Background(), &Request{Date: day})

	require.NoError(t, err)
	assert.True(t, resp.FromMirror)
	assert.Equal(t, list, resp.Events)
}
