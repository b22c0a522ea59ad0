package update_booking_status

import (
	"time"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	updateBookingStatus "github.com/pawmates/PSV-BookingService/internal/usecase/update_booking_status"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
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
	UpdatedAt   string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest(bookingID, actorUserID int64) *updateBookingStatus.Request {
	return &updateBookingStatus.Request{
		BookingID:   bookingID,
		ActorUserID: actorUserID,
		NextStatus:  r.Status,
		Note:        r.Note,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBookingStatus.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		OwnerUserID: resp.OwnerUserID,
		ProviderID:  resp.ProviderID,
		PetName:     resp.PetName,
		Date:        resp.Date.Format(domain.DateFormat),
		TimeSlot:    resp.TimeSlot.String(),
		Note:        resp.Note,
		Status:      resp.Status,
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
