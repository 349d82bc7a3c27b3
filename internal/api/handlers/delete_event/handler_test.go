package delete_event

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Delete(ctx context.Context, externalID string) error {
	return m.Called(ctx, externalID).Error(0)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"mirror deferred", fmt.Errorf("%w: db down", events.ErrPartialSync), http.StatusAccepted},
		{"not found", events.ErrEventNotFound, http.StatusNotFound},
		{"remote failed", events.ErrRemoteDelete, http.StatusBadGateway},
		{"internal", events.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Delete", mock.Anything, "evt-1").Return(tt.err).Once()

			r := mux.NewRouter()
			r.HandleFunc("/api/v1/calendar/events/{eventId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodDelete)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/calendar/events/evt-1", nil))

			assert.Equal(t, tt.status, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Handle_NotConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/calendar/events/evt-1", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
