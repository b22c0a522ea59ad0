package slots

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

// Repository репозиторий календаря слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// EnsureRange досоздает недостающие слоты фиксированного дневного набора
// для диапазона дат [startDate, startDate+days). Повторный вызов идемпотентен:
// существующие слоты не дублируются (ON CONFLICT DO NOTHING)
func (r *Repository) EnsureRange(ctx context.Context, providerID int64, startDate time.Time, days int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("availability_slots").
		Columns("provider_id", "slot_date", "time_slot")

	for d := 0; d < days; d++ {
		current := startDate.AddDate(0, 0, d)
		for _, timeSlot := range domain.DailySlotTimes {
			insertBuilder = insertBuilder.Values(providerID, current, timeSlot)
		}
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (provider_id, slot_date, time_slot) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: EnsureRange - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: EnsureRange - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByProviderAndDate возвращает слоты провайдера на дату,
// отсортированные по времени начала
func (r *Repository) GetByProviderAndDate(ctx context.Context, providerID int64, slotDate time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"provider_id",
		"slot_date",
		"time_slot",
		"created_at",
	).
		From("availability_slots").
		Where(squirrel.Eq{"provider_id": providerID, "slot_date": slotDate}).
		OrderBy("time_slot ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		var slot domain.Slot
		var createdAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.ProviderID,
			&slot.SlotDate,
			&slot.TimeSlot,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByProviderAndDate - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Exists проверяет, что слот присутствует в календаре провайдера
func (r *Repository) Exists(ctx context.Context, providerID int64, slotDate time.Time, timeSlot types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("availability_slots").
		Where(squirrel.Eq{
			"provider_id": providerID,
			"slot_date":   slotDate,
			"time_slot":   timeSlot,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}
