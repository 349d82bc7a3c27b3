package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tableName = "calendar_events"

var columns = []string{
	"id",
	"external_event_id",
	"title",
	"description",
	"start_time",
	"end_time",
	"attendees",
	"meeting_link",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий локального зеркала событий календаря.
// Ключ зеркала - external_event_id (1:1 с событием провайдера).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert вставляет запись или обновляет существующую с тем же external_event_id.
// Повторный вызов с теми же данными не меняет результат, поэтому его безопасно
// использовать при повторной синхронизации.
func (r *Repository) Upsert(ctx context.Context, ev *domain.CalendarEvent) (*domain.CalendarEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"external_event_id",
			"title",
			"description",
			"start_time",
			"end_time",
			"attendees",
			"meeting_link",
			"status",
		).
		Values(
			ev.ExternalEventID,
			ev.Title,
			ev.Description,
			ev.StartTime,
			ev.EndTime,
			pq.Array(ev.Attendees),
			ev.MeetingLink,
			ev.Status,
		).
		Suffix(`ON CONFLICT (external_event_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			attendees = EXCLUDED.attendees,
			meeting_link = EXCLUDED.meeting_link,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&ev.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	ev.CreatedAt = createdAt.Time
	ev.UpdatedAt = updatedAt.Time

	return ev, nil
}

// GetByExternalID получает запись по ID события провайдера
func (r *Repository) GetByExternalID(ctx context.Context, externalEventID string) (*domain.CalendarEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"external_event_id": externalEventID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalID - build select query: %v", ErrBuildQuery, err)
	}

	ev, err := scanEvent(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalID - scan event: %v", ErrScanRow, err)
	}

	return ev, nil
}

// GetByExternalIDs получает записи по списку ID провайдера, результат индексирован по external_event_id
func (r *Repository) GetByExternalIDs(ctx context.Context, externalEventIDs []string) (map[string]*domain.CalendarEvent, error) {
	result := make(map[string]*domain.CalendarEvent, len(externalEventIDs))
	if len(externalEventIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	// squirrel.Eq со слайсом превращается в IN (...)
	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"external_event_id": externalEventIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		result[ev.ExternalEventID] = ev
	}
	return result, nil
}

// GetByDateRange получает записи, пересекающиеся с [from, to), как и выборка провайдера
func (r *Repository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*domain.CalendarEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// DeleteByExternalID удаляет запись по ID события провайдера
func (r *Repository) DeleteByExternalID(ctx context.Context, externalEventID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"external_event_id": externalEventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByExternalID - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByExternalID - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByExternalID - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.CalendarEvent, error) {
	var ev domain.CalendarEvent
	var attendees pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&ev.ID,
		&ev.ExternalEventID,
		&ev.Title,
		&ev.Description,
		&ev.StartTime,
		&ev.EndTime,
		&attendees,
		&ev.MeetingLink,
		&ev.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ev.Attendees = []string(attendees)
	ev.CreatedAt = createdAt.Time
	ev.UpdatedAt = updatedAt.Time

	return &ev, nil
}

// scanEvents сканирует результаты запроса в слайс событий
func scanEvents(rows *sql.Rows) ([]*domain.CalendarEvent, error) {
	events := make([]*domain.CalendarEvent, 0)

	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEvents - scan row: %v", ErrScanRow, err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEvents - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}
