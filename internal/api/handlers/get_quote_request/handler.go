package get_quote_request

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	quotesService "github.com/pawmates/PSV-BookingService/internal/service/quotes"
)

const (
	msgInvalidRequestID = "некорректный ID запроса котировок"
	msgRequestNotFound  = "запрос котировок не найден"
	msgAccessDenied     = "нет доступа к этому запросу котировок"
)

type Handler struct {
	service  QuotesService
	notifier NotifierClient
	logger   Logger
}

func NewHandler(service QuotesService, notifierClient NotifierClient, logger Logger) *Handler {
	return &Handler{
		service:  service,
		notifier: notifierClient,
		logger:   logger,
	}
}

// Handle GET /api/v1/quotes/{quoteRequestId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	vars := mux.Vars(r)
	quoteRequestID, err := strconv.ParseInt(vars["quoteRequestId"], 10, 64)
	if err != nil || quoteRequestID <= 0 {
		h.logger.Warn("GET /quotes/{quoteRequestId} - Invalid request ID: %s", vars["quoteRequestId"])
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	// Оппортунистическая диспетчеризация напоминаний перед чтением
	h.dispatchDueReminders(r)

	result, err := h.service.Get(r.Context(), quoteRequestID, userID)
	if err != nil {
		switch {
		case errors.Is(err, quotesService.ErrRequestNotFound):
			h.logger.Warn("GET /quotes/%d - Request not found", quoteRequestID)
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, quotesService.ErrAccessDenied):
			h.logger.Warn("GET /quotes/%d - Access denied: user_id=%d", quoteRequestID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /quotes/%d - Failed: user_id=%d, error=%v", quoteRequestID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// dispatchDueReminders best-effort: ошибка диспетчера не ломает чтение
func (h *Handler) dispatchDueReminders(r *http.Request) {
	dispatched, err := h.service.DispatchReminders(r.Context())
	if err != nil {
		h.logger.Error("GET /quotes/{quoteRequestId} - Reminder dispatch failed: %v", err)
		return
	}
	if len(dispatched.Dispatched) > 0 {
		h.notifier.SendAll(r.Context(), handlers.ReminderNotifications(dispatched.Dispatched))
	}
}
