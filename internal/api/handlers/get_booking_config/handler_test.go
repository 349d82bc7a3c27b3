package get_booking_config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func get(t *testing.T, s Settings) BookingConfigResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHandler(s, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/booking/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body BookingConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandler_Handle(t *testing.T) {
	body := get(t, Settings{
		Configured:  true,
		AdminEmail:  "admin@example.com",
		Location:    time.UTC,
		Hours:       domain.DefaultBusinessHours,
		HorizonDays: 30,
	})

	assert.True(t, body.Configured)
	assert.Equal(t, "admin@example.com", body.AdminEmail)
	assert.Equal(t, "UTC", body.Timezone)
	assert.Equal(t, 30, body.SlotDurationMinutes)
	assert.Equal(t, 15, body.LeadTimeMinutes)
	assert.Equal(t, []HoursWindow{{Open: "09:00", Close: "12:00"}, {Open: "13:00", Close: "17:00"}}, body.Hours)
}

func TestHandler_Handle_NotConfigured(t *testing.T) {
	body := get(t, Settings{
		AdminEmail: "admin@example.com",
		Location:   time.UTC,
		Hours:      domain.DefaultBusinessHours,
	})

	assert.False(t, body.Configured)
	assert.Empty(t, body.AdminEmail)
}
