package respond_quote

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	"github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
)

type QuotesService interface {
	Respond(ctx context.Context, req *models.RespondRequest) (*models.RespondResult, error)
}

type NotifierClient interface {
	SendAll(ctx context.Context, notifications []notifier.Notification)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
