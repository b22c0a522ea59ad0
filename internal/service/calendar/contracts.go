package calendar

import (
	"context"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListByOwnerAndRange(ctx context.Context, ownerUserID int64, dateFrom, dateTo time.Time) ([]*domain.Booking, error)
	ListByProvidersAndRange(ctx context.Context, providerIDs []int64, dateFrom, dateTo time.Time) ([]*domain.Booking, error)
}

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) error
	ListByRequesterAndRange(ctx context.Context, requesterUserID int64, dateFrom, dateTo time.Time) ([]*domain.Hold, error)
}

// BlackoutRepository интерфейс репозитория блэкаутов
type BlackoutRepository interface {
	ListByProvidersAndRange(ctx context.Context, providerIDs []int64, dateFrom, dateTo time.Time) ([]*domain.Blackout, error)
}

// ProviderDirectoryClient интерфейс клиента справочника провайдеров
type ProviderDirectoryClient interface {
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*providerdirectory.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
