package quotes

import (
	"context"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
)

// QuoteRepository интерфейс репозитория котировок
type QuoteRepository interface {
	GetRequest(ctx context.Context, id int64) (*domain.QuoteRequest, error)
	ListTargets(ctx context.Context, quoteRequestID int64) ([]*domain.QuoteTarget, error)
	GetTarget(ctx context.Context, quoteRequestID, providerID int64) (*domain.QuoteTarget, error)
	SetTargetResponse(ctx context.Context, quoteRequestID, providerID int64, status domain.QuoteTargetStatus, message string, respondedAt time.Time) error
	UpdateRequestStatus(ctx context.Context, id int64, status domain.QuoteRequestStatus) error
	ListPendingTargets(ctx context.Context) ([]*domain.QuoteTarget, error)
	MarkReminderSent(ctx context.Context, quoteRequestID, providerID int64, tier domain.ReminderTier) error
}

// ProviderDirectoryClient интерфейс клиента справочника провайдеров
type ProviderDirectoryClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerdirectory.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
