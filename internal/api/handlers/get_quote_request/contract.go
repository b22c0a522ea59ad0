package get_quote_request

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	"github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
)

type QuotesService interface {
	Get(ctx context.Context, quoteRequestID int64, userID int64) (*models.QuoteRequestResponse, error)
	DispatchReminders(ctx context.Context) (*models.DispatchResult, error)
}

type NotifierClient interface {
	SendAll(ctx context.Context, notifications []notifier.Notification)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
