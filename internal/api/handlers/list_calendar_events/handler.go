package list_calendar_events

import (
	"errors"
	"net/http"
	"time"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	"github.com/pawmates/PSV-BookingService/internal/domain"
	calendarService "github.com/pawmates/PSV-BookingService/internal/service/calendar"
	"github.com/pawmates/PSV-BookingService/internal/service/calendar/models"
)

const (
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDateRange = "некорректный диапазон дат"
	msgInvalidRole      = "некорректная роль, ожидается all, owner или provider"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/events?from=YYYY-MM-DD&to=YYYY-MM-DD&role=all
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	query := r.URL.Query()

	dateFrom, err := time.Parse(domain.DateFormat, query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /calendar/events - Invalid from date: %s", query.Get("from"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	dateTo, err := time.Parse(domain.DateFormat, query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /calendar/events - Invalid to date: %s", query.Get("to"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ListEvents(r.Context(), &models.ListEventsRequest{
		UserID:   userID,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Role:     query.Get("role"),
	})
	if err != nil {
		switch {
		case errors.Is(err, calendarService.ErrInvalidDateRange):
			h.logger.Warn("GET /calendar/events - Invalid date range: user_id=%d, %s..%s",
				userID, query.Get("from"), query.Get("to"))
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, calendarService.ErrInvalidInput):
			h.logger.Warn("GET /calendar/events - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRole)

		default:
			h.logger.Error("GET /calendar/events - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
