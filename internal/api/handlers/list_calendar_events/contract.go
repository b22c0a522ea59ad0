package list_calendar_events

import (
	"context"

	"github.com/pawmates/PSV-BookingService/internal/service/calendar/models"
)

type CalendarService interface {
	ListEvents(ctx context.Context, req *models.ListEventsRequest) (*models.EventListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
