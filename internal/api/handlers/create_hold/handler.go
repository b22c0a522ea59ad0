package create_hold

import (
	"errors"
	"net/http"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	createHold "github.com/pawmates/PSV-BookingService/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgProviderNotFound   = "провайдер не найден"
	msgInvalidTimeSlot    = "время не входит в дневной набор слотов"
	msgBookingCutoff      = "слишком поздно для удержания этого слота"
	msgSlotBlocked        = "слот недоступен"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings/holds - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrProviderNotFound):
			h.logger.Warn("POST /bookings/holds - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, createHold.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings/holds - Invalid time slot: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createHold.ErrBookingCutoff):
			h.logger.Warn("POST /bookings/holds - Cutoff applies: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondConflict(w, msgBookingCutoff)

		case errors.Is(err, createHold.ErrSlotBlocked):
			h.logger.Warn("POST /bookings/holds - Slot blocked: user_id=%d, provider_id=%d", userID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /bookings/holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings/holds - Failed: user_id=%d, provider_id=%d, error=%v",
				userID, req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/holds - Hold created: hold_id=%d, user_id=%d, provider_id=%d",
		result.ID, userID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
