package create_booking

import (
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	createBooking "github.com/pawmates/PSV-BookingService/internal/usecase/create_booking"
	"github.com/pawmates/PSV-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ProviderID int64  `json:"providerId"`
	Date       string `json:"date"`     // "2025-10-15"
	TimeSlot   string `json:"timeSlot"` // "14:00"
	PetName    string `json:"petName"`
	Note       string `json:"note,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64  `json:"id"`
	OwnerUserID int64  `json:"ownerUserId"`
	ProviderID  int64  `json:"providerId"`
	PetName     string `json:"petName"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Note        string `json:"note,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterUserID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	timeSlot, err := types.NewTimeStringFromString(r.TimeSlot)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		RequesterUserID: requesterUserID,
		ProviderID:      r.ProviderID,
		Date:            date,
		TimeSlot:        timeSlot,
		PetName:         r.PetName,
		Note:            r.Note,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		OwnerUserID: resp.OwnerUserID,
		ProviderID:  resp.ProviderID,
		PetName:     resp.PetName,
		Date:        resp.Date.Format(domain.DateFormat),
		TimeSlot:    resp.TimeSlot.String(),
		Note:        resp.Note,
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
