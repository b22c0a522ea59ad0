package create_blackout

import (
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/service/blackouts/models"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// CreateBlackoutRequest HTTP request model
type CreateBlackoutRequest struct {
	Date     string `json:"date"`     // "2025-10-15"
	TimeSlot string `json:"timeSlot"` // "14:00"
	Reason   string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlackoutRequest) ToServiceRequest(providerID, actorUserID int64) (*models.CreateBlackoutRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	timeSlot, err := types.NewTimeStringFromString(r.TimeSlot)
	if err != nil {
		return nil, err
	}

	return &models.CreateBlackoutRequest{
		ProviderID:  providerID,
		ActorUserID: actorUserID,
		Date:        date,
		TimeSlot:    timeSlot,
		Reason:      r.Reason,
	}, nil
}
