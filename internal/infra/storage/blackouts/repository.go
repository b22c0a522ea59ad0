package blackouts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/pkg/dbmetrics"
	"github.com/pawmates/PSV-BookingService/pkg/psqlbuilder"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// Код PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// Repository репозиторий блэкаутов провайдера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блэкаутов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блэкаут слота. Инвариант "не более одного блэкаута на слот"
// держится на уникальном индексе: нарушение транслируется в ErrBlackoutExists
func (r *Repository) Create(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("provider_blackout_slots").
		Columns(
			"provider_id",
			"slot_date",
			"time_slot",
			"reason",
			"created_by",
		).
		Values(
			blackout.ProviderID,
			blackout.SlotDate,
			blackout.TimeSlot,
			blackout.Reason,
			blackout.CreatedBy,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blackout.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrBlackoutExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	blackout.CreatedAt = createdAt.Time
	return blackout, nil
}

// BlackoutTimes возвращает времена слотов провайдера на дату, закрытые блэкаутами
func (r *Repository) BlackoutTimes(ctx context.Context, providerID int64, slotDate time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time_slot").
		From("provider_blackout_slots").
		Where(squirrel.Eq{"provider_id": providerID, "slot_date": slotDate}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: BlackoutTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: BlackoutTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var timeSlot types.TimeString
		if err := rows.Scan(&timeSlot); err != nil {
			return nil, fmt.Errorf("%w: BlackoutTimes - scan row: %v", ErrScanRow, err)
		}
		times = append(times, timeSlot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: BlackoutTimes - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// ListByProvider возвращает все блэкауты провайдера, отсортированные по дате и времени
func (r *Repository) ListByProvider(ctx context.Context, providerID int64) ([]*domain.Blackout, error) {
	return r.list(ctx, "ListByProvider", r.selectBlackouts().
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("slot_date ASC, time_slot ASC"))
}

// ListByProvidersAndRange возвращает блэкауты набора провайдеров за диапазон дат
func (r *Repository) ListByProvidersAndRange(ctx context.Context, providerIDs []int64, dateFrom, dateTo time.Time) ([]*domain.Blackout, error) {
	if len(providerIDs) == 0 {
		return []*domain.Blackout{}, nil
	}
	return r.list(ctx, "ListByProvidersAndRange", r.selectBlackouts().
		Where(squirrel.Eq{"provider_id": providerIDs}).
		Where(squirrel.GtOrEq{"slot_date": dateFrom}).
		Where(squirrel.LtOrEq{"slot_date": dateTo}).
		OrderBy("slot_date ASC, time_slot ASC"))
}

func (r *Repository) selectBlackouts() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"provider_id",
		"slot_date",
		"time_slot",
		"reason",
		"created_by",
		"created_at",
	).From("provider_blackout_slots")
}

func (r *Repository) list(ctx context.Context, method string, selectBuilder squirrel.SelectBuilder) ([]*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	blackouts := make([]*domain.Blackout, 0)
	for rows.Next() {
		var blackout domain.Blackout
		var createdAt sql.NullTime

		err := rows.Scan(
			&blackout.ID,
			&blackout.ProviderID,
			&blackout.SlotDate,
			&blackout.TimeSlot,
			&blackout.Reason,
			&blackout.CreatedBy,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}

		blackout.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return blackouts, nil
}
