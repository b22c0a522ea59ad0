package respond_quote

import (
	"github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
)

// RespondQuoteRequest HTTP request model
type RespondQuoteRequest struct {
	ProviderID int64  `json:"providerId"`
	Decision   string `json:"decision"` // accepted | declined
	Message    string `json:"message,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RespondQuoteRequest) ToServiceRequest(quoteRequestID, actorUserID int64) *models.RespondRequest {
	return &models.RespondRequest{
		QuoteRequestID: quoteRequestID,
		ProviderID:     r.ProviderID,
		ActorUserID:    actorUserID,
		Decision:       r.Decision,
		Message:        r.Message,
	}
}
