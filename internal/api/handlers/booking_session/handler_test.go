package booking_session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingWizard "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_wizard"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockWizard struct {
	mock.Mock
}

func (m *mockWizard) result(args mock.Arguments) (*domain.BookingSession, error) {
	s, _ := args.Get(0).(*domain.BookingSession)
	return s, args.Error(1)
}

func (m *mockWizard) Start(ctx context.Context, req bookingWizard.StartRequest) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, req))
}

func (m *mockWizard) Get(ctx context.Context, id string) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockWizard) ChooseDate(ctx context.Context, id string, date time.Time) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id, date))
}

func (m *mockWizard) ChooseSlot(ctx context.Context, id string, slot domain.TimeSlot) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id, slot))
}

func (m *mockWizard) Back(ctx context.Context, id string) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockWizard) Next(ctx context.Context, id string) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id))
}

func (m *mockWizard) UpdateContact(ctx context.Context, id string, contact domain.ContactInfo) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id, contact))
}

func (m *mockWizard) Submit(ctx context.Context, id string, contact domain.ContactInfo) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id, contact))
}

func (m *mockWizard) Restart(ctx context.Context, id string) (*domain.BookingSession, error) {
	return m.result(m.Called(ctx, id))
}

func newRouter(uc BookingWizardUseCase) *mux.Router {
	h := NewHandler(uc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/sessions", h.Start).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionId}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionId}/date", h.ChooseDate).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionId}/slot", h.ChooseSlot).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionId}/submit", h.Submit).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionId}/restart", h.Restart).Methods(http.MethodPost)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func session(step domain.WizardStep) *domain.BookingSession {
	return &domain.BookingSession{ID: "s-1", Step: step, Timezone: "UTC"}
}

func TestHandler_Start(t *testing.T) {
	uc := new(mockWizard)
	uc.On("Start", mock.Anything, bookingWizard.StartRequest{Timezone: "Europe/Moscow"}).
		Return(session(domain.StepDateSelection), nil).Once()

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions", `{"timezone":"Europe/Moscow"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "s-1", body.ID)
	assert.Equal(t, "date_selection", body.Step)
	assert.Nil(t, body.SelectedDate)
}

func TestHandler_Start_NotConfigured(t *testing.T) {
	uc := new(mockWizard)
	uc.On("Start", mock.Anything, mock.Anything).Return(nil, bookingWizard.ErrNotConfigured).Once()

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"configured":false`)
}

func TestHandler_ChooseDate(t *testing.T) {
	uc := new(mockWizard)
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	s := session(domain.StepTimeSelection)
	s.SelectedDate = &date
	s.Slots = []domain.SlotAvailability{{StartTime: 9}, {StartTime: 9.5, Disabled: true}}
	s.AvailabilityToken = 1
	uc.On("ChooseDate", mock.Anything, "s-1", date).Return(s, nil).Once()

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions/s-1/date", `{"date":"2026-10-16"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.SelectedDate)
	assert.Equal(t, "2026-10-16", *body.SelectedDate)
	assert.Equal(t, []SessionSlot{{StartTime: "09:00"}, {StartTime: "09:30", Disabled: true}}, body.Slots)
}

func TestHandler_ChooseDate_InvalidFormat(t *testing.T) {
	uc := new(mockWizard)

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions/s-1/date", `{"date":"16/10/2026"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "ChooseDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ChooseSlot(t *testing.T) {
	uc := new(mockWizard)
	s := session(domain.StepContactInfo)
	slot := domain.TimeSlot(13.5)
	s.SelectedSlot = &slot
	uc.On("ChooseSlot", mock.Anything, "s-1", domain.TimeSlot(13.5)).Return(s, nil).Once()

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions/s-1/slot", `{"startTime":"13:30"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"selectedSlot":"13:30"`)
}

func TestHandler_ErrorMapping(t *testing.T) {
	withMessage := session(domain.StepContactInfo)
	withMessage.Error = "Некорректный email"

	tests := []struct {
		name    string
		session *domain.BookingSession
		err     error
		status  int
	}{
		{"not found", nil, bookingWizard.ErrSessionNotFound, http.StatusNotFound},
		{"invalid transition", nil, bookingWizard.ErrInvalidTransition, http.StatusConflict},
		{"validation", withMessage, fmt.Errorf("%w: email", bookingWizard.ErrValidation), http.StatusUnprocessableEntity},
		{"submit failed", withMessage, fmt.Errorf("%w: remote", bookingWizard.ErrSubmitFailed), http.StatusBadGateway},
		{"internal", nil, bookingWizard.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockWizard)
			uc.On("Submit", mock.Anything, "s-1", domain.ContactInfo{Name: "Ann", Email: "bad"}).
				Return(tt.session, tt.err).Once()

			rec := do(t, newRouter(uc), http.MethodPost, "/sessions/s-1/submit", `{"name":"Ann","email":"bad"}`)

			assert.Equal(t, tt.status, rec.Code)
			if tt.session != nil {
				assert.Contains(t, rec.Body.String(), `"error":"Некорректный email"`)
				assert.Contains(t, rec.Body.String(), `"step":"contact_info"`)
			}
		})
	}
}

func TestHandler_Submit_Confirmed(t *testing.T) {
	uc := new(mockWizard)
	s := session(domain.StepConfirmation)
	s.ConfirmedEvent = &domain.CalendarEvent{
		ID:              7,
		ExternalEventID: "evt-1",
		Title:           "Meeting with Ann",
		StartTime:       time.Date(2026, 10, 16, 13, 30, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC),
		MeetingLink:     "https://meet.google.com/abc",
	}
	uc.On("Submit", mock.Anything, "s-1", domain.ContactInfo{Name: "Ann", Email: "ann@example.com"}).Return(s, nil).Once()

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions/s-1/submit", `{"name":"Ann","email":"ann@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.ConfirmedEvent)
	assert.Equal(t, "evt-1", body.ConfirmedEvent.ExternalEventID)
	assert.Equal(t, "https://meet.google.com/abc", body.ConfirmedEvent.MeetingLink)
}

func TestHandler_Submit_UnknownField(t *testing.T) {
	uc := new(mockWizard)

	rec := do(t, newRouter(uc), http.MethodPost, "/sessions/s-1/submit", `{"name":"Ann","phone":"1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
