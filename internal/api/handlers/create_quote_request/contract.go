package create_quote_request

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	createQuoteRequest "github.com/pawmates/PSV-BookingService/internal/usecase/create_quote_request"
)

type CreateQuoteRequestUseCase interface {
	Execute(ctx context.Context, req *createQuoteRequest.Request) (*createQuoteRequest.Response, error)
}

type NotifierClient interface {
	SendAll(ctx context.Context, notifications []notifier.Notification)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
