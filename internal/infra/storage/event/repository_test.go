package event

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var eventColumns = []string{
	"id", "external_event_id", "title", "description", "start_time", "end_time",
	"attendees", "meeting_link", "status", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO calendar_events")).
		WithArgs("evt-1", "Meeting", "", start, start.Add(30*time.Minute), sqlmock.AnyArg(), "", domain.EventStatusScheduled).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	ev, err := repo.Upsert(context.Background(), &domain.CalendarEvent{
		ExternalEventID: "evt-1",
		Title:           "Meeting",
		StartTime:       start,
		EndTime:         start.Add(30 * time.Minute),
		Attendees:       []string{"visitor@example.com"},
		Status:          domain.EventStatusScheduled,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), ev.ID)
	assert.Equal(t, now, ev.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByExternalID(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 10, 20, 15, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events WHERE external_event_id = $1")).
		WithArgs("evt-1").
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(
			7, "evt-1", "Meeting", "notes", start, start.Add(30*time.Minute),
			"{visitor@example.com,admin@example.com}", "https://meet.google.com/x", "confirmed", now, now,
		))

	ev, err := repo.GetByExternalID(context.Background(), "evt-1")

	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusConfirmed, ev.Status)
	assert.Equal(t, []string{"visitor@example.com", "admin@example.com"}, ev.Attendees)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByExternalID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(eventColumns))

	_, err := repo.GetByExternalID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepository_GetByExternalIDs(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE external_event_id IN ($1,$2)")).
		WithArgs("evt-1", "evt-2").
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(
			1, "evt-2", "Call", "", now, now.Add(time.Hour), "{}", "", "completed", now, now,
		))

	events, err := repo.GetByExternalIDs(context.Background(), []string{"evt-1", "evt-2"})

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventStatusCompleted, events["evt-2"].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByExternalIDs_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	events, err := repo.GetByExternalIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteByExternalID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calendar_events WHERE external_event_id = $1")).
		WithArgs("evt-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calendar_events WHERE external_event_id = $1")).
		WithArgs("evt-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByExternalID(context.Background(), "evt-1"))
	assert.ErrorIs(t, repo.DeleteByExternalID(context.Background(), "evt-1"), ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByDateRange(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	start := from.Add(15 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_events WHERE start_time < $1 AND end_time > $2 ORDER BY start_time ASC")).
		WithArgs(to, from).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(1, "evt-1", "Meeting", "", start, start.Add(30*time.Minute), "{}", "", "scheduled", now, now).
			AddRow(2, "evt-2", "Call", "", start.Add(time.Hour), start.Add(2*time.Hour), "{a@example.com}", "", "confirmed", now, now))

	events, err := repo.GetByDateRange(context.Background(), from, to)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ExternalEventID)
	assert.Equal(t, domain.EventStatusConfirmed, events[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
