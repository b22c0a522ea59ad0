package bookings

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/providerdirectory"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*domain.Booking, error)
	ListByProviders(ctx context.Context, providerIDs []int64) ([]*domain.Booking, error)
	GetHistory(ctx context.Context, bookingID int64) ([]*domain.BookingStatusChange, error)
}

// ProviderDirectoryClient интерфейс клиента справочника провайдеров
type ProviderDirectoryClient interface {
	GetProvider(ctx context.Context, providerID int64) (*providerdirectory.Provider, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*providerdirectory.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
