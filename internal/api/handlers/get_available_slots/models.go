package get_available_slots

import (
	"github.com/pawmates/PSV-BookingService/internal/domain"
	getAvailableSlots "github.com/pawmates/PSV-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse доступность одного слота дня
type SlotResponse struct {
	TimeSlot  string  `json:"timeSlot"` // "09:00"
	Available bool    `json:"available"`
	Reason    *string `json:"reason,omitempty"` // blackout | booked | held | cutoff
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ProviderID int64          `json:"providerId"`
	Date       string         `json:"date"` // "2025-10-15"
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	response := &AvailabilityResponse{
		ProviderID: resp.ProviderID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, slot := range resp.Slots {
		response.Slots = append(response.Slots, SlotResponse{
			TimeSlot:  slot.TimeSlot.String(),
			Available: slot.Available,
			Reason:    slot.Reason,
		})
	}
	return response
}
