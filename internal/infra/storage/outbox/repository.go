package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const tableName = "sync_outbox"

var columns = []string{
	"id",
	"external_event_id",
	"operation",
	"payload",
	"status",
	"attempts",
	"last_error",
	"created_at",
	"updated_at",
	"processed_at",
}

// payload данные, необходимые для повтора записи в зеркало
type payload struct {
	LocalStatus domain.EventStatus `json:"local_status,omitempty"`
}

// Repository журнал отложенных записей в локальное зеркало
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue добавляет операцию в журнал со статусом pending
func (r *Repository) Enqueue(ctx context.Context, op *domain.SyncOperation) (*domain.SyncOperation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	body, err := json.Marshal(payload{LocalStatus: op.LocalStatus})
	if err != nil {
		return nil, fmt.Errorf("%w: Enqueue - marshal payload: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("external_event_id", "operation", "payload", "status", "last_error").
		Values(op.ExternalEventID, op.Operation, string(body), domain.SyncStatusPending, op.LastError).
		Suffix("RETURNING id, attempts, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&op.ID, &op.Attempts, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}
	op.Status = domain.SyncStatusPending

	return op, nil
}

// FetchPending выбирает ожидающие операции в порядке добавления.
// Строки, заблокированные другим проходом сверки, пропускаются.
func (r *Repository) FetchPending(ctx context.Context, limit int) ([]*domain.SyncOperation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"status": domain.SyncStatusPending}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ops, err := scanOperations(rows)
	if err != nil {
		return nil, fmt.Errorf("FetchPending: %w", err)
	}
	return ops, nil
}

// LockPending блокирует ожидающую операцию по ID до конца транзакции.
// Операция, уже обработанная или заблокированная другим проходом, дает ErrOperationNotFound.
func (r *Repository) LockPending(ctx context.Context, id int64) (*domain.SyncOperation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id, "status": domain.SyncStatusPending}).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LockPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ops, err := scanOperations(rows)
	if err != nil {
		return nil, fmt.Errorf("LockPending: %w", err)
	}
	if len(ops) == 0 {
		return nil, ErrOperationNotFound
	}
	return ops[0], nil
}

// CountPending число ожидающих операций
func (r *Repository) CountPending(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableName).
		Where(squirrel.Eq{"status": domain.SyncStatusPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountPending - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountPending - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// MarkDone помечает операцию выполненной
func (r *Repository) MarkDone(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.SyncStatusDone).
		Set("processed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkDone - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkDone", query, args)
}

// MarkAttemptFailed увеличивает счетчик попыток; при достижении maxAttempts
// операция переводится в failed и больше не выбирается
func (r *Repository) MarkAttemptFailed(ctx context.Context, id int64, lastError string, maxAttempts int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", lastError).
		Set("status", squirrel.Expr("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END", maxAttempts, domain.SyncStatusFailed)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkAttemptFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkAttemptFailed", query, args)
}

// SupersedePending помечает выполненными все ожидающие операции события.
// Вызывается после успешной прямой записи в зеркало: более старые записи
// outbox не должны перезаписать ее при повторе. Возвращает число затронутых операций.
func (r *Repository) SupersedePending(ctx context.Context, externalEventID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", domain.SyncStatusDone).
		Set("processed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"external_event_id": externalEventID, "status": domain.SyncStatusPending}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: SupersedePending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SupersedePending - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SupersedePending - get rows affected: %v", ErrExecQuery, err)
	}
	return rowsAffected, nil
}

func (r *Repository) execOne(ctx context.Context, executor dbmetrics.DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrOperationNotFound
	}
	return nil
}

func scanOperations(rows *sql.Rows) ([]*domain.SyncOperation, error) {
	ops := make([]*domain.SyncOperation, 0)
	for rows.Next() {
		var op domain.SyncOperation
		var body []byte
		var processedAt sql.NullTime

		if err := rows.Scan(
			&op.ID,
			&op.ExternalEventID,
			&op.Operation,
			&body,
			&op.Status,
			&op.Attempts,
			&op.LastError,
			&op.CreatedAt,
			&op.UpdatedAt,
			&processedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrScanRow, err)
		}

		if len(body) > 0 {
			var p payload
			if err := json.Unmarshal(body, &p); err != nil {
				return nil, fmt.Errorf("%w: decode payload id=%d: %v", ErrScanRow, op.ID, err)
			}
			op.LocalStatus = p.LocalStatus
		}
		if processedAt.Valid {
			op.ProcessedAt = &processedAt.Time
		}

		ops = append(ops, &op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return ops, nil
}
