package create_quote_request

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pawmates/PSV-BookingService/internal/api/handlers"
	"github.com/pawmates/PSV-BookingService/internal/api/middleware"
	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	createQuoteRequest "github.com/pawmates/PSV-BookingService/internal/usecase/create_quote_request"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNoProvidersFound   = "подходящих провайдеров не найдено"
)

type Handler struct {
	useCase  CreateQuoteRequestUseCase
	notifier NotifierClient
	logger   Logger
}

func NewHandler(useCase CreateQuoteRequestUseCase, notifierClient NotifierClient, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		notifier: notifierClient,
		logger:   logger,
	}
}

// Handle POST /api/v1/quotes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req CreateQuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createQuoteRequest.ErrNoProvidersFound):
			h.logger.Warn("POST /quotes - No providers found: user_id=%d, category=%s, suburb=%s",
				userID, req.Category, req.Suburb)
			handlers.RespondNotFound(w, msgNoProvidersFound)

		case errors.Is(err, createQuoteRequest.ErrInvalidInput):
			h.logger.Warn("POST /quotes - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /quotes - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Каждый целевой провайдер узнает о новом запросе после коммита
	notifications := make([]notifier.Notification, 0, len(result.Targets))
	for _, target := range result.Targets {
		notifications = append(notifications, notifier.Notification{
			RecipientUserID: target.OwnerUserID,
			Title:           "Новый запрос котировки",
			Body: fmt.Sprintf("%s, %s: %s",
				result.Category, result.Suburb, result.PreferredWindow),
			Category: notifier.CategoryQuote,
			DeepLink: fmt.Sprintf("app://quotes/%d", result.ID),
		})
	}
	h.notifier.SendAll(r.Context(), notifications)

	h.logger.Info("POST /quotes - Quote request created: request_id=%d, user_id=%d, targets=%d",
		result.ID, userID, len(result.Targets))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
