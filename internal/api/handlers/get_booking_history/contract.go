package get_booking_history

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/service/bookings/models"
)

type BookingsService interface {
	GetHistory(ctx context.Context, bookingID int64, userID int64) (*models.StatusHistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
