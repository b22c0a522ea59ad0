package create_booking

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	createBooking "github.com/pawmates/PSV-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgProviderNotFound   = "провайдер не найден"
	msgInvalidTimeSlot    = "время не входит в дневной набор слотов"
	msgBookingCutoff      = "слишком поздно для бронирования этого слота"
	msgSlotBlocked        = "слот недоступен"
)

type Handler struct {
	useCase  CreateBookingUseCase
	notifier NotifierClient
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, notifierClient NotifierClient, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		notifier: notifierClient,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrProviderNotFound):
			h.logger.Warn("POST /bookings - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrBookingCutoff):
			h.logger.Warn("POST /bookings - Cutoff applies: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondConflict(w, msgBookingCutoff)

		case errors.Is(err, createBooking.ErrSlotBlocked):
			h.logger.Warn("POST /bookings - Slot blocked: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed: user_id=%d, provider_id=%d, error=%v",
				userID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Уведомление владельцу провайдера уходит после коммита; неудача
	// доставки не влияет на ответ
	h.notifier.SendAll(r.Context(), []notifier.Notification{{
		RecipientUserID: result.ProviderOwnerUserID,
		Title:           "Новый запрос на бронирование",
		Body: fmt.Sprintf("%s: %s %s, питомец %s",
			result.ProviderName, result.Date.Format(domain.DateFormat), result.TimeSlot, result.PetName),
		Category: notifier.CategoryBooking,
		DeepLink: fmt.Sprintf("app://bookings/%d", result.ID),
	}})

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%d, provider_id=%d",
		result.ID, userID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
