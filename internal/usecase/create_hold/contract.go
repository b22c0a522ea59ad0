package create_hold

import (
	"context"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// SlotRepository интерфейс репозитория календаря слотов
type SlotRepository interface {
	EnsureRange(ctx context.Context, providerID int64, startDate time.Time, days int) error
	Exists(ctx context.Context, providerID int64, slotDate time.Time, timeSlot types.TimeString) (bool, error)
}

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	Create(ctx context.Context, hold *domain.Hold) (*domain.Hold, error)
	DeleteExpired(ctx context.Context, now time.Time) error
	HeldTimes(ctx context.Context, providerID int64, slotDate time.Time) ([]types.TimeString, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ActiveTimes(ctx context.Context, providerID int64, slotDate time.Time) ([]types.TimeString, error)
}

// BlackoutRepository интерфейс репозитория блэкаутов
type BlackoutRepository interface {
	BlackoutTimes(ctx context.Context, providerID int64, slotDate time.Time) ([]types.TimeString, error)
}

// ProviderDirectoryClient интерфейс клиента справочника провайдеров
type ProviderDirectoryClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerdirectory.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
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
