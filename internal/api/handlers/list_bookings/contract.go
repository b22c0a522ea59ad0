package list_bookings

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	bookingModels "github.com/pawmates/PSV-BookingService/internal/service/bookings/models"
	quoteModels "github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
)

type BookingsService interface {
	ListByUser(ctx context.Context, req *bookingModels.ListUserBookingsRequest) (*bookingModels.BookingListResponse, error)
}

type QuotesService interface {
	DispatchReminders(ctx context.Context) (*quoteModels.DispatchResult, error)
}

type NotifierClient interface {
	SendAll(ctx context.Context, notifications []notifier.Notification)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
