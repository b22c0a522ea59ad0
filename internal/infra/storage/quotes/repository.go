package quotes

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
)

// Код PostgreSQL unique_violation
const pgUniqueViolation = "23505"

// Repository репозиторий запросов котировок и их целей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория котировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateRequest создает запрос котировок
func (r *Repository) CreateRequest(ctx context.Context, request *domain.QuoteRequest) (*domain.QuoteRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("quote_requests").
		Columns(
			"user_id",
			"category",
			"suburb",
			"preferred_window",
			"pet_details",
			"note",
			"status",
		).
		Values(
			request.UserID,
			request.Category,
			request.Suburb,
			request.PreferredWindow,
			request.PetDetails,
			request.Note,
			request.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRequest - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&request.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRequest - execute insert: %v", ErrExecQuery, err)
	}

	request.CreatedAt = createdAt.Time
	request.UpdatedAt = updatedAt.Time
	return request, nil
}

// CreateTarget создает цель запроса (одного подобранного провайдера)
func (r *Repository) CreateTarget(ctx context.Context, target *domain.QuoteTarget) (*domain.QuoteTarget, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("quote_targets").
		Columns(
			"quote_request_id",
			"provider_id",
			"owner_user_id",
			"status",
			"response_message",
		).
		Values(
			target.QuoteRequestID,
			target.ProviderID,
			target.OwnerUserID,
			target.Status,
			target.ResponseMessage,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTarget - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&target.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrTargetExists
		}
		return nil, fmt.Errorf("%w: CreateTarget - execute insert: %v", ErrExecQuery, err)
	}

	target.CreatedAt = createdAt.Time
	return target, nil
}

// GetRequest получает запрос котировок по ID
func (r *Repository) GetRequest(ctx context.Context, id int64) (*domain.QuoteRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"category",
		"suburb",
		"preferred_window",
		"pet_details",
		"note",
		"status",
		"created_at",
		"updated_at",
	).
		From("quote_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRequest - build select query: %v", ErrBuildQuery, err)
	}

	var request domain.QuoteRequest
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&request.ID,
		&request.UserID,
		&request.Category,
		&request.Suburb,
		&request.PreferredWindow,
		&request.PetDetails,
		&request.Note,
		&request.Status,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetRequest - scan request: %v", ErrScanRow, err)
	}

	request.CreatedAt = createdAt.Time
	request.UpdatedAt = updatedAt.Time
	return &request, nil
}

// ListTargets возвращает цели запроса в порядке добавления
func (r *Repository) ListTargets(ctx context.Context, quoteRequestID int64) ([]*domain.QuoteTarget, error) {
	return r.listTargets(ctx, "ListTargets", r.selectTargets().
		Where(squirrel.Eq{"quote_request_id": quoteRequestID}).
		OrderBy("id ASC"))
}

// GetTarget получает цель запроса по паре (запрос, провайдер)
func (r *Repository) GetTarget(ctx context.Context, quoteRequestID, providerID int64) (*domain.QuoteTarget, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.selectTargets().
		Where(squirrel.Eq{"quote_request_id": quoteRequestID, "provider_id": providerID})

	// Ответ перезапишет строку, внутри транзакции блокируем её
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetTarget - build select query: %v", ErrBuildQuery, err)
	}

	target, err := scanTarget(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTarget - scan target: %v", ErrScanRow, err)
	}

	return target, nil
}

// SetTargetResponse фиксирует ответ провайдера: статус, сообщение и responded_at.
// После ухода из pending responded_at не сбрасывается
func (r *Repository) SetTargetResponse(ctx context.Context, quoteRequestID, providerID int64, status domain.QuoteTargetStatus, message string, respondedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("quote_targets").
		Set("status", status).
		Set("response_message", message).
		Set("responded_at", respondedAt).
		Where(squirrel.Eq{"quote_request_id": quoteRequestID, "provider_id": providerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetTargetResponse - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetTargetResponse - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetTargetResponse - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTargetNotFound
	}

	return nil
}

// UpdateRequestStatus записывает пересчитанный производный статус запроса
func (r *Repository) UpdateRequestStatus(ctx context.Context, id int64, status domain.QuoteRequestStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("quote_requests").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateRequestStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateRequestStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateRequestStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

// ListPendingTargets возвращает все неотвеченные цели для прохода напоминаний
func (r *Repository) ListPendingTargets(ctx context.Context) ([]*domain.QuoteTarget, error) {
	selectBuilder := r.selectTargets().
		Where(squirrel.Eq{"status": domain.QuoteTargetPending}).
		Where("responded_at IS NULL").
		OrderBy("id ASC")

	// Флаги напоминаний будут перезаписаны, внутри транзакции блокируем строки
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return r.listTargets(ctx, "ListPendingTargets", selectBuilder)
}

// MarkReminderSent взводит флаг отправленного напоминания.
// 60-минутная ступень гасит и 15-минутную, чтобы запоздавшее
// раннее напоминание не ушло следом за поздним
func (r *Repository) MarkReminderSent(ctx context.Context, quoteRequestID, providerID int64, tier domain.ReminderTier) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("quote_targets").
		Where(squirrel.Eq{"quote_request_id": quoteRequestID, "provider_id": providerID})

	switch tier {
	case domain.ReminderTier60:
		updateBuilder = updateBuilder.
			Set("reminder_60_sent", true).
			Set("reminder_15_sent", true)
	case domain.ReminderTier15:
		updateBuilder = updateBuilder.Set("reminder_15_sent", true)
	default:
		return fmt.Errorf("%w: MarkReminderSent - unknown tier %q", ErrExecQuery, tier)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTargetNotFound
	}

	return nil
}

func (r *Repository) selectTargets() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"quote_request_id",
		"provider_id",
		"owner_user_id",
		"status",
		"response_message",
		"created_at",
		"responded_at",
		"reminder_15_sent",
		"reminder_60_sent",
	).From("quote_targets")
}

func (r *Repository) listTargets(ctx context.Context, method string, selectBuilder squirrel.SelectBuilder) ([]*domain.QuoteTarget, error) {
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

	targets := make([]*domain.QuoteTarget, 0)
	for rows.Next() {
		target, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		targets = append(targets, target)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return targets, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTarget(row rowScanner) (*domain.QuoteTarget, error) {
	var target domain.QuoteTarget
	var createdAt, respondedAt sql.NullTime

	err := row.Scan(
		&target.ID,
		&target.QuoteRequestID,
		&target.ProviderID,
		&target.OwnerUserID,
		&target.Status,
		&target.ResponseMessage,
		&createdAt,
		&respondedAt,
		&target.Reminder15Sent,
		&target.Reminder60Sent,
	)
	if err != nil {
		return nil, err
	}

	target.CreatedAt = createdAt.Time
	if respondedAt.Valid {
		target.RespondedAt = &respondedAt.Time
	}
	return &target, nil
}
