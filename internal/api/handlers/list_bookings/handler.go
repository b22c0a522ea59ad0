package list_bookings

import (
	"errors"
	"net/http"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	bookingsService "github.com/pawmates/PSV-BookingService/internal/service/bookings"
	bookingModels "github.com/pawmates/PSV-BookingService/internal/service/bookings/models"
)

const msgInvalidRole = "некорректная роль, ожидается all, owner или provider"

type Handler struct {
	service  BookingsService
	quotes   QuotesService
	notifier NotifierClient
	logger   Logger
}

func NewHandler(service BookingsService, quotes QuotesService, notifierClient NotifierClient, logger Logger) *Handler {
	return &Handler{
		service:  service,
		quotes:   quotes,
		notifier: notifierClient,
		logger:   logger,
	}
}

// Handle GET /api/v1/bookings?role=all|owner|provider
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	// Оппортунистическая диспетчеризация напоминаний: посещение списка
	// бронирований продвигает просроченные котировки. Флаги выставляются
	// атомарно, поэтому параллельные посетители дублей не создают
	h.dispatchDueReminders(r)

	result, err := h.service.ListByUser(r.Context(), &bookingModels.ListUserBookingsRequest{
		UserID: userID,
		Role:   r.URL.Query().Get("role"),
	})
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid role: user_id=%d, role=%s", userID, r.URL.Query().Get("role"))
			handlers.RespondBadRequest(w, msgInvalidRole)

		default:
			h.logger.Error("GET /bookings - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// dispatchDueReminders best-effort: ошибка диспетчера не ломает чтение
func (h *Handler) dispatchDueReminders(r *http.Request) {
	dispatched, err := h.quotes.DispatchReminders(r.Context())
	if err != nil {
		h.logger.Error("GET /bookings - Reminder dispatch failed: %v", err)
		return
	}
	if len(dispatched.Dispatched) > 0 {
		h.notifier.SendAll(r.Context(), handlers.ReminderNotifications(dispatched.Dispatched))
	}
}
