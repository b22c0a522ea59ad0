package list_blackouts

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/service/blackouts/models"
)

type BlackoutsService interface {
	List(ctx context.Context, providerID int64) (*models.BlackoutListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
