package holds

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/pkg/dbmetrics"
	"github.com/pawmates/PSV-BookingService/pkg/psqlbuilder"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Repository репозиторий холдов (мягких броней слотов)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает холд на слот
func (r *Repository) Create(ctx context.Context, hold *domain.Hold) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_holds").
		Columns(
			"provider_id",
			"requester_user_id",
			"booking_date",
			"time_slot",
			"expires_at",
		).
		Values(
			hold.ProviderID,
			hold.RequesterUserID,
			hold.SlotDate,
			hold.TimeSlot,
			hold.ExpiresAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&hold.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	hold.CreatedAt = createdAt.Time
	return hold, nil
}

// DeleteExpired удаляет все холды с истекшим сроком жизни.
// Вызывается в начале каждой операции, проверяющей занятость слотов:
// ленивое удаление заменяет фоновую чистку
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_holds").
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByRequesterAndSlot удаляет холд запрашивающего на конкретный слот.
// Используется при конвертации холда в бронирование: отсутствие холда не ошибка
func (r *Repository) DeleteByRequesterAndSlot(ctx context.Context, requesterUserID, providerID int64, slotDate time.Time, timeSlot types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_holds").
		Where(squirrel.Eq{
			"requester_user_id": requesterUserID,
			"provider_id":       providerID,
			"booking_date":      slotDate,
			"time_slot":         timeSlot,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByRequesterAndSlot - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByRequesterAndSlot - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// HeldTimes возвращает времена слотов провайдера на дату, занятые холдами.
// Истекшие холды должны быть удалены до вызова (DeleteExpired)
func (r *Repository) HeldTimes(ctx context.Context, providerID int64, slotDate time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time_slot").
		From("booking_holds").
		Where(squirrel.Eq{"provider_id": providerID, "booking_date": slotDate}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: HeldTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: HeldTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var timeSlot types.TimeString
		if err := rows.Scan(&timeSlot); err != nil {
			return nil, fmt.Errorf("%w: HeldTimes - scan row: %v", ErrScanRow, err)
		}
		times = append(times, timeSlot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: HeldTimes - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// ListByRequesterAndRange возвращает холды запрашивающего за диапазон дат.
// Используется календарем событий
func (r *Repository) ListByRequesterAndRange(ctx context.Context, requesterUserID int64, dateFrom, dateTo time.Time) ([]*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"requester_user_id",
		"booking_date",
		"time_slot",
		"expires_at",
		"created_at",
	).
		From("booking_holds").
		Where(squirrel.Eq{"requester_user_id": requesterUserID}).
		Where(squirrel.GtOrEq{"booking_date": dateFrom}).
		Where(squirrel.LtOrEq{"booking_date": dateTo}).
		OrderBy("booking_date ASC, time_slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequesterAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRequesterAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]*domain.Hold, 0)
	for rows.Next() {
		var hold domain.Hold
		var createdAt sql.NullTime

		err := rows.Scan(
			&hold.ID,
			&hold.ProviderID,
			&hold.RequesterUserID,
			&hold.SlotDate,
			&hold.TimeSlot,
			&hold.ExpiresAt,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByRequesterAndRange - scan row: %v", ErrScanRow, err)
		}

		hold.CreatedAt = createdAt.Time
		holds = append(holds, &hold)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByRequesterAndRange - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}
