package create_blackout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	blackoutsService "github.com/pawmates/PSV-BookingService/internal/service/blackouts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidProviderID  = "некорректный ID провайдера"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgProviderNotFound   = "провайдер не найден"
	msgAccessDenied       = "блэкаут может создать только владелец провайдера"
	msgBlackoutExists     = "блэкаут на этот слот уже существует"
	msgSlotBooked         = "слот занят активным бронированием"
	msgInvalidTimeSlot    = "время не входит в дневной набор слотов"
)

type Handler struct {
	service BlackoutsService
	logger  Logger
}

func NewHandler(service BlackoutsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/providers/{providerId}/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil || providerID <= 0 {
		h.logger.Warn("POST /providers/{providerId}/blackouts - Invalid provider ID: %s", vars["providerId"])
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var req CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/%d/blackouts - Invalid request body: %v", providerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(providerID, userID)
	if err != nil {
		h.logger.Warn("POST /providers/%d/blackouts - Failed to parse request: %v", providerID, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blackoutsService.ErrProviderNotFound):
			h.logger.Warn("POST /providers/%d/blackouts - Provider not found", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, blackoutsService.ErrAccessDenied):
			h.logger.Warn("POST /providers/%d/blackouts - Access denied: user_id=%d", providerID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, blackoutsService.ErrBlackoutExists):
			h.logger.Warn("POST /providers/%d/blackouts - Blackout exists: user_id=%d", providerID, userID)
			handlers.RespondConflict(w, msgBlackoutExists)

		case errors.Is(err, blackoutsService.ErrSlotBooked):
			h.logger.Warn("POST /providers/%d/blackouts - Slot booked: user_id=%d", providerID, userID)
			handlers.RespondConflict(w, msgSlotBooked)

		case errors.Is(err, blackoutsService.ErrInvalidTimeSlot):
			h.logger.Warn("POST /providers/%d/blackouts - Invalid time slot: user_id=%d", providerID, userID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, blackoutsService.ErrInvalidInput):
			h.logger.Warn("POST /providers/%d/blackouts - Invalid input: %v", providerID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /providers/%d/blackouts - Failed: user_id=%d, error=%v", providerID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/%d/blackouts - Blackout created: blackout_id=%d, user_id=%d",
		providerID, result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
