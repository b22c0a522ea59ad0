package create_booking

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	createBooking "github.com/pawmates/PSV-BookingService/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

type NotifierClient interface {
	SendAll(ctx context.Context, notifications []notifier.Notification)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
