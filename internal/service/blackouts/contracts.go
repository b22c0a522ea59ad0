package blackouts

import (
	"context"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// BlackoutRepository интерфейс репозитория блэкаутов
type BlackoutRepository interface {
	Create(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error)
	ListByProvider(ctx context.Context, providerID int64) ([]*domain.Blackout, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	EnsureRange(ctx context.Context, providerID int64, startDate time.Time, days int) error
	Exists(ctx context.Context, providerID int64, slotDate time.Time, timeSlot types.TimeString) (bool, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	HasActiveBySlot(ctx context.Context, providerID int64, slotDate time.Time, timeSlot types.TimeString) (bool, error)
}

// ProviderDirectoryClient интерфейс клиента справочника провайдеров
type ProviderDirectoryClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerdirectory.Provider, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
