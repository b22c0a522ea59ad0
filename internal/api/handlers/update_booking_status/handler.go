package update_booking_status

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	updateBookingStatus "github.com/pawmates/PSV-BookingService/internal/usecase/update_booking_status"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgBookingNotFound    = "бронирование не найдено"
	msgBookingTerminal    = "бронирование уже в терминальном статусе"
	msgInvalidTransition  = "недопустимый переход статуса"
	msgPermissionDenied   = "нет прав для применения этого статуса"
)

type Handler struct {
	useCase  UpdateBookingStatusUseCase
	notifier NotifierClient
	logger   Logger
}

func NewHandler(useCase UpdateBookingStatusUseCase, notifierClient NotifierClient, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		notifier: notifierClient,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("POST /bookings/{bookingId}/status - Invalid booking ID: %s", vars["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/%d/status - Invalid request body: %v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, userID))
	if err != nil {
		switch {
		case errors.Is(err, updateBookingStatus.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/%d/status - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updateBookingStatus.ErrBookingTerminal):
			h.logger.Warn("POST /bookings/%d/status - Booking is terminal: user_id=%d", bookingID, userID)
			handlers.RespondConflict(w, msgBookingTerminal)

		case errors.Is(err, updateBookingStatus.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/%d/status - Invalid transition to %s: user_id=%d",
				bookingID, req.Status, userID)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateBookingStatus.ErrPermissionDenied):
			h.logger.Warn("POST /bookings/%d/status - Permission denied: user_id=%d, status=%s",
				bookingID, userID, req.Status)
			handlers.RespondForbidden(w, msgPermissionDenied)

		case errors.Is(err, updateBookingStatus.ErrInvalidInput):
			h.logger.Warn("POST /bookings/%d/status - Invalid input: %v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/%d/status - Failed: user_id=%d, error=%v", bookingID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Контрагент узнает о смене статуса после коммита; неудача доставки
	// не влияет на ответ
	h.notifier.SendAll(r.Context(), []notifier.Notification{{
		RecipientUserID: result.CounterpartyUserID,
		Title:           "Статус бронирования изменен",
		Body: fmt.Sprintf("%s: бронирование %s %s теперь %q",
			result.ProviderName, result.Date.Format("2006-01-02"), result.TimeSlot, result.Status),
		Category: notifier.CategoryBooking,
		DeepLink: fmt.Sprintf("app://bookings/%d", result.ID),
	}})

	h.logger.Info("POST /bookings/%d/status - Status updated to %s by user_id=%d",
		bookingID, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
