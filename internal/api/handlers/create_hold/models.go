package create_hold

import (
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	createHold "github.com/pawmates/PSV-BookingService/internal/usecase/create_hold"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`     // "2025-10-15"
	TimeSlot   string `json:"timeSlot"` // "14:00"
}

// HoldResponse HTTP response model
type HoldResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`
	TimeSlot   string `json:"timeSlot"`
	ExpiresAt  string `json:"expiresAt"`
	CreatedAt  string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest(requesterUserID int64) (*createHold.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	timeSlot, err := types.NewTimeStringFromString(r.TimeSlot)
	if err != nil {
		return nil, err
	}

	return &createHold.Request{
		RequesterUserID: requesterUserID,
		ProviderID:      r.ProviderID,
		Date:            date,
		TimeSlot:        timeSlot,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createHold.Response) *HoldResponse {
	return &HoldResponse{
		ID:         resp.ID,
		ProviderID: resp.ProviderID,
		Date:       resp.Date.Format(domain.DateFormat),
		TimeSlot:   resp.TimeSlot.String(),
		ExpiresAt:  resp.ExpiresAt.Format(time.RFC3339),
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
	}
}
