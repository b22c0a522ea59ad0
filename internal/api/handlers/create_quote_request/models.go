package create_quote_request

import (
	"time"

	createQuoteRequest "github.com/pawmates/PSV-BookingService/internal/usecase/create_quote_request"
)

// CreateQuoteRequest HTTP request model
type CreateQuoteRequest struct {
	Category        string `json:"category"`
	Suburb          string `json:"suburb"`
	PreferredWindow string `json:"preferredWindow"`
	PetDetails      string `json:"petDetails"`
	Note            string `json:"note,omitempty"`
	MaxTargets      int    `json:"maxTargets,omitempty"`
}

// TargetResponse одна цель созданного запроса
type TargetResponse struct {
	ProviderID   int64  `json:"providerId"`
	ProviderName string `json:"providerName,omitempty"`
	Status       string `json:"status"`
}

// QuoteRequestResponse HTTP response model
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

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateQuoteRequest) ToUseCaseRequest(userID int64) *createQuoteRequest.Request {
	return &createQuoteRequest.Request{
		UserID:          userID,
		Category:        r.Category,
		Suburb:          r.Suburb,
		PreferredWindow: r.PreferredWindow,
		PetDetails:      r.PetDetails,
		Note:            r.Note,
		MaxTargets:      r.MaxTargets,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createQuoteRequest.Response) *QuoteRequestResponse {
	response := &QuoteRequestResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		Category:        resp.Category,
		Suburb:          resp.Suburb,
		PreferredWindow: resp.PreferredWindow,
		PetDetails:      resp.PetDetails,
		Note:            resp.Note,
		Status:          resp.Status,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		Targets:         make([]TargetResponse, 0, len(resp.Targets)),
	}
	for _, target := range resp.Targets {
		response.Targets = append(response.Targets, TargetResponse{
			ProviderID:   target.ProviderID,
			ProviderName: target.ProviderName,
			Status:       target.Status,
		})
	}
	return response
}
