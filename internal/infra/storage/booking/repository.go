package booking

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

// Repository репозиторий бронирований и их истории статусов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование.
// Проверка занятости слота выполняется в usecase внутри сериализуемой
// транзакции, репозиторий её не дублирует
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"owner_user_id",
			"provider_id",
			"pet_name",
			"booking_date",
			"time_slot",
			"note",
			"status",
		).
		Values(
			booking.OwnerUserID,
			booking.ProviderID,
			booking.PetName,
			booking.BookingDate,
			booking.TimeSlot,
			booking.Note,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectBookings().Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: статус будет перезаписан
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ActiveTimes возвращает времена слотов провайдера на дату, занятые
// активными (нетерминальными) бронированиями
func (r *Repository) ActiveTimes(ctx context.Context, providerID int64, slotDate time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time_slot").
		From("bookings").
		Where(squirrel.Eq{
			"provider_id":  providerID,
			"booking_date": slotDate,
			"status":       activeStatusStrings(),
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var timeSlot types.TimeString
		if err := rows.Scan(&timeSlot); err != nil {
			return nil, fmt.Errorf("%w: ActiveTimes - scan row: %v", ErrScanRow, err)
		}
		times = append(times, timeSlot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ActiveTimes - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// HasActiveBySlot проверяет, занят ли слот активным бронированием
func (r *Repository) HasActiveBySlot(ctx context.Context, providerID int64, slotDate time.Time, timeSlot types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{
			"provider_id":  providerID,
			"booking_date": slotDate,
			"time_slot":    timeSlot,
			"status":       activeStatusStrings(),
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasActiveBySlot - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// UpdateStatus обновляет статус бронирования и, если передана, заметку
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, note *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if note != nil {
		updateBuilder = updateBuilder.Set("note", *note)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ListByOwner возвращает бронирования владельца питомца, новые первыми
func (r *Repository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Booking, error) {
	return r.list(ctx, "ListByOwner", r.selectBookings().
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		OrderBy("created_at DESC"))
}

// ListByProviders возвращает бронирования по набору провайдеров, новые первыми.
// Пустой набор провайдеров дает пустой результат без обращения к БД
func (r *Repository) ListByProviders(ctx context.Context, providerIDs []int64) ([]*domain.Booking, error) {
	if len(providerIDs) == 0 {
		return []*domain.Booking{}, nil
	}
	return r.list(ctx, "ListByProviders", r.selectBookings().
		Where(squirrel.Eq{"provider_id": providerIDs}).
		OrderBy("created_at DESC"))
}

// ListByOwnerAndRange возвращает бронирования владельца за диапазон дат
func (r *Repository) ListByOwnerAndRange(ctx context.Context, ownerUserID int64, dateFrom, dateTo time.Time) ([]*domain.Booking, error) {
	return r.list(ctx, "ListByOwnerAndRange", r.selectBookings().
		Where(squirrel.Eq{"owner_user_id": ownerUserID}).
		Where(squirrel.GtOrEq{"booking_date": dateFrom}).
		Where(squirrel.LtOrEq{"booking_date": dateTo}).
		OrderBy("booking_date ASC, time_slot ASC"))
}

// ListByProvidersAndRange возвращает бронирования провайдеров за диапазон дат
func (r *Repository) ListByProvidersAndRange(ctx context.Context, providerIDs []int64, dateFrom, dateTo time.Time) ([]*domain.Booking, error) {
	if len(providerIDs) == 0 {
		return []*domain.Booking{}, nil
	}
	return r.list(ctx, "ListByProvidersAndRange", r.selectBookings().
		Where(squirrel.Eq{"provider_id": providerIDs}).
		Where(squirrel.GtOrEq{"booking_date": dateFrom}).
		Where(squirrel.LtOrEq{"booking_date": dateTo}).
		OrderBy("booking_date ASC, time_slot ASC"))
}

// AppendHistory добавляет запись в append-only историю статусов.
// Записи истории никогда не изменяются и не удаляются
func (r *Repository) AppendHistory(ctx context.Context, change *domain.BookingStatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns(
			"booking_id",
			"actor_user_id",
			"from_status",
			"to_status",
			"note",
		).
		Values(
			change.BookingID,
			change.ActorUserID,
			change.FromStatus,
			change.ToStatus,
			change.Note,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AppendHistory - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&change.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("%w: AppendHistory - execute insert: %v", ErrExecQuery, err)
	}

	change.CreatedAt = createdAt.Time
	return nil
}

// GetHistory возвращает историю статусов бронирования в порядке добавления
func (r *Repository) GetHistory(ctx context.Context, bookingID int64) ([]*domain.BookingStatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"actor_user_id",
		"from_status",
		"to_status",
		"note",
		"created_at",
	).
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	changes := make([]*domain.BookingStatusChange, 0)
	for rows.Next() {
		var change domain.BookingStatusChange
		var createdAt sql.NullTime

		err := rows.Scan(
			&change.ID,
			&change.BookingID,
			&change.ActorUserID,
			&change.FromStatus,
			&change.ToStatus,
			&change.Note,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetHistory - scan row: %v", ErrScanRow, err)
		}

		change.CreatedAt = createdAt.Time
		changes = append(changes, &change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHistory - rows error: %v", ErrScanRow, err)
	}

	return changes, nil
}

func (r *Repository) selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"owner_user_id",
		"provider_id",
		"pet_name",
		"booking_date",
		"time_slot",
		"note",
		"status",
		"created_at",
		"updated_at",
	).From("bookings")
}

func (r *Repository) list(ctx context.Context, method string, selectBuilder squirrel.SelectBuilder) ([]*domain.Booking, error) {
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

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var booking domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.OwnerUserID,
			&booking.ProviderID,
			&booking.PetName,
			&booking.BookingDate,
			&booking.TimeSlot,
			&booking.Note,
			&booking.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}

		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.OwnerUserID,
		&booking.ProviderID,
		&booking.PetName,
		&booking.BookingDate,
		&booking.TimeSlot,
		&booking.Note,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time
	return &booking, nil
}

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
