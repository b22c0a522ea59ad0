package dispatch_reminders

import (
	"net/http"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
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

// Handle POST /api/v1/quotes/reminders/dispatch
// Явная точка запуска диспетчера напоминаний, для cron или ручного вызова.
// Повторный вызов без новых созревших напоминаний возвращает пустой список
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.DispatchReminders(r.Context())
	if err != nil {
		h.logger.Error("POST /quotes/reminders/dispatch - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if len(result.Dispatched) > 0 {
		h.notifier.SendAll(r.Context(), handlers.ReminderNotifications(result.Dispatched))
	}

	h.logger.Info("POST /quotes/reminders/dispatch - Dispatched %d reminders", len(result.Dispatched))
	handlers.RespondJSON(w, http.StatusOK, result)
}
