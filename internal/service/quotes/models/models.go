package models

import (
	"github.com/pawmates/PSV-BookingService/internal/domain"
)

// Request модели

// RespondRequest ответ провайдера на запрос котировок
type RespondRequest struct {
	QuoteRequestID int64
	ProviderID     int64
	ActorUserID    int64
	Decision       string // accepted | declined
	Message        string
}

// Response модели

// TargetResponse одна цель запроса котировок
type TargetResponse struct {
	ProviderID      int64  `json:"providerId"`
	ProviderName    string `json:"providerName,omitempty"`
	Status          string `json:"status"`
	ResponseMessage string `json:"responseMessage,omitempty"`
	RespondedAt     string `json:"respondedAt,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

// QuoteRequestResponse запрос котировок с целями.
// Status всегда проекция статусов целей, не хранимое поле
type QuoteRequestResponse struct {
	ID              int64            `json:"id"`
	UserID          int64            `json:"userId"`
	Category        string           `json:"category"`
	Suburb          string           `json:"suburb"`
	PreferredWindow string           `json:"preferredWindow"`
	PetDetails      string           `json:"petDetails"`
	Note            string           `json:"note,omitempty"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"createdAt"`
	Targets         []TargetResponse `json:"targets"`
}

// RespondResult результат ответа провайдера; RequesterUserID нужен
// обработчику для уведомления после коммита
type RespondResult struct {
	QuoteRequestID  int64  `json:"quoteRequestId"`
	ProviderID      int64  `json:"providerId"`
	Status          string `json:"status"`
	RequestStatus   string `json:"requestStatus"`
	RequesterUserID int64  `json:"-"`
	ProviderName    string `json:"-"`
}

// ReminderDescriptor напоминание, подлежащее доставке после коммита
type ReminderDescriptor struct {
	QuoteRequestID int64               `json:"quoteRequestId"`
	ProviderID     int64               `json:"providerId"`
	OwnerUserID    int64               `json:"ownerUserId"`
	Tier           domain.ReminderTier `json:"tier"`
	ElapsedMinutes int                 `json:"elapsedMinutes"`
}

// DispatchResult итог прохода диспетчера напоминаний
type DispatchResult struct {
	Dispatched []ReminderDescriptor `json:"dispatched"`
}

// FromDomainRequest конвертирует запрос котировок с целями в response
// модель, подставляя имена провайдеров и спроецированный статус
func FromDomainRequest(request *domain.QuoteRequest, targets []*domain.QuoteTarget, providerNames map[int64]string) *QuoteRequestResponse {
	response := &QuoteRequestResponse{
		ID:              request.ID,
		UserID:          request.UserID,
		Category:        request.Category,
		Suburb:          request.Suburb,
		PreferredWindow: request.PreferredWindow,
		PetDetails:      request.PetDetails,
		Note:            request.Note,
		Status:          string(domain.ProjectQuoteRequestStatus(targets)),
		CreatedAt:       request.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Targets:         make([]TargetResponse, 0, len(targets)),
	}

	for _, target := range targets {
		tr := TargetResponse{
			ProviderID:      target.ProviderID,
			ProviderName:    providerNames[target.ProviderID],
			Status:          string(target.Status),
			ResponseMessage: target.ResponseMessage,
			CreatedAt:       target.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if target.RespondedAt != nil {
			tr.RespondedAt = target.RespondedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		response.Targets = append(response.Targets, tr)
	}

	return response
}
