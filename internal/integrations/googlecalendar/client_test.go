package googlecalendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Options{
		CalendarID: "primary",
		Endpoint:   srv.URL + "/",
		HTTPClient: srv.Client(),
	}, logger.NewNop())
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_FreeBusy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2026-10-20T00:00:00Z", req["timeMin"])

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"calendars": map[string]interface{}{
				"primary": map[string]interface{}{
					"busy": []map[string]string{
						{"start": "2026-10-20T15:00:00Z", "end": "2026-10-20T16:00:00Z"},
						{"start": "garbage", "end": "2026-10-20T16:00:00Z"},
					},
				},
			},
		})
	})
	client := newTestClient(t, mux)

	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	busy, err := client.FreeBusy(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.True(t, busy[0].Start.Equal(day.Add(15*time.Hour)))
	assert.True(t, busy[0].End.Equal(day.Add(16*time.Hour)))
}

func TestClient_FreeBusy_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]interface{}{
			"error": map[string]interface{}{"code": 500, "message": "backend error"},
		})
	})
	client := newTestClient(t, mux)

	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	_, err := client.FreeBusy(context.Background(), day, day.Add(24*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_CreateEvent_WithMeetingLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "hangoutsMeet")
		assert.Contains(t, string(body), "visitor@example.com")

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"id":          "evt-1",
			"summary":     "Meeting with Ann",
			"hangoutLink": "https://meet.google.com/abc-defg-hij",
			"start":       map[string]string{"dateTime": "2026-10-20T15:00:00Z"},
			"end":         map[string]string{"dateTime": "2026-10-20T15:30:00Z"},
			"attendees":   []map[string]string{{"email": "visitor@example.com"}},
		})
	})
	client := newTestClient(t, mux)

	start := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)
	ev, err := client.CreateEvent(context.Background(), domain.EventDraft{
		Title:              "Meeting with Ann",
		StartTime:          start,
		EndTime:            start.Add(30 * time.Minute),
		Attendees:          []string{"visitor@example.com"},
		RequestMeetingLink: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "evt-1", ev.ExternalEventID)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", ev.MeetingLink)
	assert.Equal(t, []string{"visitor@example.com"}, ev.Attendees)
	assert.True(t, ev.StartTime.Equal(start))
}

func TestClient_DeleteEvent_Gone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events/evt-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(t, w, http.StatusGone, map[string]interface{}{
			"error": map[string]interface{}{"code": 410, "message": "Resource has been deleted"},
		})
	})
	client := newTestClient(t, mux)

	err := client.DeleteEvent(context.Background(), "evt-1")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestClient_UpdateEvent_Patch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events/evt-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var patch map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, "Renamed", patch["summary"])
		assert.NotContains(t, patch, "start")

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"id":      "evt-1",
			"summary": "Renamed",
			"start":   map[string]string{"dateTime": "2026-10-20T15:00:00Z"},
			"end":     map[string]string{"dateTime": "2026-10-20T15:30:00Z"},
		})
	})
	client := newTestClient(t, mux)

	title := "Renamed"
	ev, err := client.UpdateEvent(context.Background(), "evt-1", domain.EventChanges{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ev.Title)
}

func TestClient_ListEvents_SkipsCancelled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id":      "evt-1",
					"summary": "Demo",
					"start":   map[string]string{"dateTime": "2026-10-20T09:00:00Z"},
					"end":     map[string]string{"dateTime": "2026-10-20T09:30:00Z"},
				},
				{
					"id":     "evt-2",
					"status": "cancelled",
					"start":  map[string]string{"dateTime": "2026-10-20T10:00:00Z"},
					"end":    map[string]string{"dateTime": "2026-10-20T10:30:00Z"},
				},
			},
		})
	})
	client := newTestClient(t, mux)

	day := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ExternalEventID)
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), Options{}, logger.NewNop())
	assert.ErrorIs(t, err, ErrUnauthorized)
}
