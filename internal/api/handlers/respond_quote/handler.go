package respond_quote

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	quotesService "github.com/pawmates/PSV-BookingService/internal/service/quotes"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequestID   = "некорректный ID запроса котировок"
	msgRequestNotFound    = "запрос котировок не найден"
	msgTargetNotFound     = "провайдер не входит в этот запрос котировок"
	msgAccessDenied       = "ответить может только владелец провайдера"
	msgAlreadyResponded   = "ответ по этой котировке уже дан"
	msgInvalidDecision    = "некорректное решение, ожидается accepted или declined"
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

// Handle POST /api/v1/quotes/{quoteRequestId}/responses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	vars := mux.Vars(r)
	quoteRequestID, err := strconv.ParseInt(vars["quoteRequestId"], 10, 64)
	if err != nil || quoteRequestID <= 0 {
		h.logger.Warn("POST /quotes/{quoteRequestId}/responses - Invalid request ID: %s", vars["quoteRequestId"])
		handlers.RespondBadRequest(w, msgInvalidRequestID)
		return
	}

	var req RespondQuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes/%d/responses - Invalid request body: %v", quoteRequestID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Respond(r.Context(), req.ToServiceRequest(quoteRequestID, userID))
	if err != nil {
		switch {
		case errors.Is(err, quotesService.ErrRequestNotFound):
			h.logger.Warn("POST /quotes/%d/responses - Request not found", quoteRequestID)
			handlers.RespondNotFound(w, msgRequestNotFound)

		case errors.Is(err, quotesService.ErrTargetNotFound):
			h.logger.Warn("POST /quotes/%d/responses - Target not found: provider_id=%d", quoteRequestID, req.ProviderID)
			handlers.RespondNotFound(w, msgTargetNotFound)

		case errors.Is(err, quotesService.ErrAccessDenied):
			h.logger.Warn("POST /quotes/%d/responses - Access denied: user_id=%d, provider_id=%d",
				quoteRequestID, userID, req.ProviderID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, quotesService.ErrAlreadyResponded):
			h.logger.Warn("POST /quotes/%d/responses - Already responded: provider_id=%d", quoteRequestID, req.ProviderID)
			handlers.RespondConflict(w, msgAlreadyResponded)

		case errors.Is(err, quotesService.ErrInvalidDecision):
			h.logger.Warn("POST /quotes/%d/responses - Invalid decision: %s", quoteRequestID, req.Decision)
			handlers.RespondBadRequest(w, msgInvalidDecision)

		case errors.Is(err, quotesService.ErrInvalidInput):
			h.logger.Warn("POST /quotes/%d/responses - Invalid input: %v", quoteRequestID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /quotes/%d/responses - Failed: user_id=%d, error=%v", quoteRequestID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Запрашивающий узнает об ответе после коммита
	verb := "принял"
	if result.Status == string(domain.QuoteTargetDeclined) {
		verb = "отклонил"
	}
	h.notifier.SendAll(r.Context(), []notifier.Notification{{
		RecipientUserID: result.RequesterUserID,
		Title:           "Ответ на запрос котировки",
		Body:            fmt.Sprintf("%s %s ваш запрос #%d", result.ProviderName, verb, result.QuoteRequestID),
		Category:        notifier.CategoryQuote,
		DeepLink:        fmt.Sprintf("app://quotes/%d", result.QuoteRequestID),
	}})

	h.logger.Info("POST /quotes/%d/responses - Response recorded: provider_id=%d, decision=%s, request_status=%s",
		quoteRequestID, req.ProviderID, result.Status, result.RequestStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
